package handler

import (
	"net/http"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type InventarioHandler struct{ svc service.InventarioService }

func NewInventarioHandler(svc service.InventarioService) *InventarioHandler {
	return &InventarioHandler{svc: svc}
}

// Listar GET /v1/inventario
func (h *InventarioHandler) Listar(c *gin.Context) {
	var filter dto.InventarioFilter
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

// Upsert godoc
// @Summary      Crear o actualizar linea de inventario
// @Description  Fija precio unitario y stock critico de (producto, talla). No modifica el stock.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpsertInventarioRequest true "Linea"
// @Success      200  {object} dto.InventarioResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/inventario [put]
func (h *InventarioHandler) Upsert(c *gin.Context) {
	var req dto.UpsertInventarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Upsert(c.Request.Context(), usuarioRUT(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ajustar godoc
// @Summary      Ajuste manual de stock
// @Description  Suma delta al stock; rechaza con 409 si el resultado seria negativo.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AjusteStockRequest true "Ajuste"
// @Success      200  {object} dto.InventarioResponse
// @Failure      409  {object} apierror.ConflictError
// @Router       /v1/inventario/ajuste [post]
func (h *InventarioHandler) Ajustar(c *gin.Context) {
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Ajustar(c.Request.Context(), usuarioRUT(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerAlertas GET /v1/inventario/alertas
func (h *InventarioHandler) ObtenerAlertas(c *gin.Context) {
	resp, err := h.svc.ObtenerAlertas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarMovimientos GET /v1/inventario/movimientos
func (h *InventarioHandler) ListarMovimientos(c *gin.Context) {
	var filter dto.MovimientoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarMovimientos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
