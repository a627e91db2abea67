package handler

import (
	"net/http"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type ClientesHandler struct{ svc service.ClienteService }

func NewClientesHandler(svc service.ClienteService) *ClientesHandler {
	return &ClientesHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar cliente
// @Tags         clientes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearClienteRequest true "Cliente"
// @Success      201  {object} dto.ClienteResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/clientes [post]
func (h *ClientesHandler) Crear(c *gin.Context) {
	var req dto.CrearClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar GET /v1/clientes
func (h *ClientesHandler) Listar(c *gin.Context) {
	var filter dto.ClienteFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorRUT godoc
// @Summary      Buscar cliente por RUT
// @Description  Acepta el RUT con o sin puntos; el digito verificador es obligatorio.
// @Tags         clientes
// @Produce      json
// @Security     BearerAuth
// @Param        rut  path     string true "RUT del cliente"
// @Success      200  {object} dto.ClienteResponse
// @Failure      400  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /v1/clientes/{rut} [get]
func (h *ClientesHandler) ObtenerPorRUT(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorRUT(c.Request.Context(), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/clientes/:rut
func (h *ClientesHandler) Actualizar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	var req dto.ActualizarClienteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), r, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar DELETE /v1/clientes/:rut
func (h *ClientesHandler) Eliminar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Cliente eliminado"))
}
