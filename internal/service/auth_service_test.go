package service_test

import (
	"context"
	"testing"

	"tiendaropa/internal/config"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const secretoTest = "secreto-de-prueba"

func nuevoAuth(t *testing.T, activo bool) (service.AuthService, *stubUsuarioRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	email := "admin@tienda.cl"
	repo := newStubUsuarioRepo()
	require.NoError(t, repo.Create(context.Background(), &model.Usuario{
		RUT:          rutAdmin,
		Nombre:       "Admin",
		Email:        &email,
		PasswordHash: string(hash),
		Rol:          model.RolAdministrador,
		Activo:       activo,
	}))
	cfg := &config.Config{JWTSecret: secretoTest, JWTExpirationHours: 1, JWTRefreshHours: 24}
	return service.NewAuthService(repo, cfg), repo
}

func claimsDe(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte(secretoTest), nil })
	require.NoError(t, err)
	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestLogin_PorRUTEnCualquierFormato(t *testing.T) {
	svc, _ := nuevoAuth(t, true)
	for _, id := range []string{"12.345.678-5", "12345678-5", "123456785"} {
		resp, err := svc.Login(context.Background(), dto.LoginRequest{Identificador: id, Password: "clave-segura"})
		require.NoError(t, err, id)
		assert.Equal(t, "12.345.678-5", resp.User.RUT)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, 3600, resp.ExpiresIn)
	}
}

func TestLogin_PorEmail(t *testing.T) {
	svc, _ := nuevoAuth(t, true)
	resp, err := svc.Login(context.Background(), dto.LoginRequest{Identificador: "admin@tienda.cl", Password: "clave-segura"})
	require.NoError(t, err)

	claims := claimsDe(t, resp.AccessToken)
	assert.Equal(t, float64(rutAdmin), claims["rut"])
	assert.Equal(t, model.RolAdministrador, claims["rol"])
	assert.Equal(t, service.TokenAcceso, claims["tipo"])
	assert.Equal(t, service.TokenRefresh, claimsDe(t, resp.RefreshToken)["tipo"])
}

func TestLogin_Rechazos(t *testing.T) {
	svc, _ := nuevoAuth(t, true)
	casos := []dto.LoginRequest{
		{Identificador: "12.345.678-5", Password: "otra-clave"},
		{Identificador: "12.345.678-9", Password: "clave-segura"}, // wrong verifier
		{Identificador: "11.111.111-1", Password: "clave-segura"},
		{Identificador: "nadie@tienda.cl", Password: "clave-segura"},
	}
	for _, req := range casos {
		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrCredenciales, req.Identificador)
	}
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	svc, _ := nuevoAuth(t, false)
	_, err := svc.Login(context.Background(), dto.LoginRequest{Identificador: "12.345.678-5", Password: "clave-segura"})
	assert.ErrorIs(t, err, service.ErrInactivo)
}

func TestRefresh_SoloAceptaRefreshTokens(t *testing.T) {
	svc, _ := nuevoAuth(t, true)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Identificador: "12.345.678-5", Password: "clave-segura"})
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Refresh(context.Background(), login.AccessToken)
	assert.ErrorIs(t, err, service.ErrCredenciales)

	_, err = svc.Refresh(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestRefresh_UsuarioDesactivado(t *testing.T) {
	svc, repo := nuevoAuth(t, true)
	login, err := svc.Login(context.Background(), dto.LoginRequest{Identificador: "12.345.678-5", Password: "clave-segura"})
	require.NoError(t, err)

	require.NoError(t, repo.SetActivo(context.Background(), rutAdmin, false))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorIs(t, err, service.ErrCredenciales)
}

func TestCrearUsuario_Duplicado(t *testing.T) {
	svc, _ := nuevoAuth(t, true)
	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		RUT:      dto.RUT(rutAdmin),
		Nombre:   "Otro",
		Password: "otra-clave-larga",
		Rol:      model.RolVendedor,
	})
	assert.ErrorIs(t, err, service.ErrDuplicado)
}

func TestObtenerUsuario_NoEncontrado(t *testing.T) {
	svc, _ := nuevoAuth(t, true)
	_, err := svc.ObtenerUsuario(context.Background(), 11111111)
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}
