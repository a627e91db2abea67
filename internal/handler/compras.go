package handler

import (
	"net/http"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type ComprasHandler struct {
	svc       service.CompraService
	reversion service.ReversionService
}

func NewComprasHandler(svc service.CompraService, reversion service.ReversionService) *ComprasHandler {
	return &ComprasHandler{svc: svc, reversion: reversion}
}

// RegistrarCompra godoc
// @Summary      Registrar compra a proveedor
// @Description  Suma al stock cada cantidad comprada; crea la linea de inventario si no existia.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarCompraRequest true "Detalle de la compra"
// @Success      201  {object} dto.CompraResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/compras [post]
func (h *ComprasHandler) RegistrarCompra(c *gin.Context) {
	var req dto.RegistrarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarCompra(c.Request.Context(), usuarioRUT(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarCompras GET /v1/compras
func (h *ComprasHandler) ListarCompras(c *gin.Context) {
	var filter dto.CompraFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListCompras(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerCompra GET /v1/compras/:id
func (h *ComprasHandler) ObtenerCompra(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerCompra(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularCompra godoc
// @Summary      Anular compra
// @Description  Retira del stock cada cantidad comprada. Responde 409 STOCK_INSUFICIENTE con el detalle por linea si el stock quedaria negativo.
// @Tags         compras
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string            true  "UUID de la compra"
// @Param        body body     dto.AnularRequest false "Motivo de anulacion"
// @Success      200  {object} apierror.Success
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.ConflictError
// @Router       /v1/compras/{id}/anular [patch]
func (h *ComprasHandler) AnularCompra(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AnularRequest
	if !bindOptional(c, &req) {
		return
	}
	if err := h.reversion.AnularCompra(c.Request.Context(), id, usuarioRUT(c), req.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Compra anulada y stock actualizado"))
}
