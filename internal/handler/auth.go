package handler

import (
	"net/http"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuario
// @Description Acepta RUT ("12.345.678-5") o email como identificador.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renovar tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Usuarios Handler ─────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Crear POST /v1/usuarios
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/usuarios?incluir_inactivos=true
func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), c.Query("incluir_inactivos") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener GET /v1/usuarios/:rut
func (h *UsuariosHandler) Obtener(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerUsuario(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/usuarios/:rut
func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarUsuario(c.Request.Context(), r, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar DELETE /v1/usuarios/:rut
func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	if r == usuarioRUT(c) {
		c.JSON(http.StatusConflict, apierror.New("No puede desactivar su propio usuario"))
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Usuario desactivado"))
}

// Reactivar PATCH /v1/usuarios/:rut/reactivar
func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	if err := h.svc.ReactivarUsuario(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Usuario reactivado"))
}
