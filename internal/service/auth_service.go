package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendaropa/internal/config"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/rut"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	bcryptCost = 12

	TokenAcceso  = "access"
	TokenRefresh = "refresh"
)

type AuthService interface {
	// Login accepts a RUT or an email as identificador.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	ObtenerUsuario(ctx context.Context, rut int) (*dto.UsuarioResponse, error)
	ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error)
	ActualizarUsuario(ctx context.Context, rut int, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, rut int) error
	ReactivarUsuario(ctx context.Context, rut int) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.buscarPorIdentificador(ctx, req.Identificador)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCredenciales
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	if !user.Activo {
		return nil, fmt.Errorf("usuario %s: %w", rut.MustFormatear(user.RUT), ErrInactivo)
	}
	log.Info().Int("usuario_rut", user.RUT).Str("rol", user.Rol).Msg("login")
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("refresh token invalido o expirado: %w", ErrCredenciales)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["tipo"] != TokenRefresh {
		return nil, fmt.Errorf("refresh token mal formado: %w", ErrCredenciales)
	}
	rutClaim, ok := claims["rut"].(float64)
	if !ok {
		return nil, fmt.Errorf("refresh token mal formado: %w", ErrCredenciales)
	}

	user, err := s.repo.FindByRUT(ctx, int(rutClaim))
	if err != nil || !user.Activo {
		return nil, fmt.Errorf("usuario no encontrado o inactivo: %w", ErrCredenciales)
	}
	return s.emitirTokens(user)
}

func (s *authService) CrearUsuario(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		RUT:          req.RUT.Int(),
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, duplicado(err, "usuario "+rut.MustFormatear(user.RUT))
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ObtenerUsuario(ctx context.Context, r int) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByRUT(ctx, r)
	if err != nil {
		return nil, noEncontrado(err, "usuario "+rut.MustFormatear(r))
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ListarUsuarios(ctx context.Context, incluirInactivos bool) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i := range users {
		resp[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) ActualizarUsuario(ctx context.Context, r int, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByRUT(ctx, r)
	if err != nil {
		return nil, noEncontrado(err, "usuario "+rut.MustFormatear(r))
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Rol != "" {
		user.Rol = req.Rol
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, duplicado(err, "email")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, r int) error {
	return noEncontrado(s.repo.SetActivo(ctx, r, false), "usuario "+rut.MustFormatear(r))
}

func (s *authService) ReactivarUsuario(ctx context.Context, r int) error {
	return noEncontrado(s.repo.SetActivo(ctx, r, true), "usuario "+rut.MustFormatear(r))
}

func (s *authService) buscarPorIdentificador(ctx context.Context, identificador string) (*model.Usuario, error) {
	if cuerpo, err := rut.Resolver(identificador); err == nil {
		return s.repo.FindByRUT(ctx, cuerpo)
	} else if !errors.Is(err, rut.ErrFormato) {
		// Well formed RUT with a wrong verifier never matches a user.
		return nil, gorm.ErrRecordNotFound
	}
	return s.repo.FindByEmail(ctx, identificador)
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, TokenAcceso, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, TokenRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         usuarioToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, tipo string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"rut":    user.RUT,
		"nombre": user.Nombre,
		"rol":    user.Rol,
		"tipo":   tipo,
		"exp":    time.Now().Add(duration).Unix(),
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		RUT:    rut.MustFormatear(u.RUT),
		Nombre: u.Nombre,
		Email:  u.Email,
		Rol:    u.Rol,
		Activo: u.Activo,
	}
}
