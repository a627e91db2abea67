package handler

import (
	"net/http"
	"path/filepath"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct {
	svc          service.VentaService
	reversion    service.ReversionService
	comprobantes service.ComprobanteService
}

func NewVentasHandler(svc service.VentaService, reversion service.ReversionService, comprobantes service.ComprobanteService) *VentasHandler {
	return &VentasHandler{svc: svc, reversion: reversion, comprobantes: comprobantes}
}

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Valida stock de cada linea, descuenta inventario y encola la boleta PDF.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.ConflictError
// @Router       /v1/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RegistrarVenta(c.Request.Context(), usuarioRUT(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Lista paginada filtrada por rango de fechas, estado y RUT de cliente.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        desde       query string false "YYYY-MM-DD"
// @Param        hasta       query string false "YYYY-MM-DD"
// @Param        estado      query string false "activa | anulada | all"
// @Param        cliente_rut query string false "RUT del cliente"
// @Param        page        query int    false "Pagina (default 1)"
// @Param        limit       query int    false "Registros por pagina (default 50)"
// @Success      200 {object} dto.VentaListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListVentas(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerVenta GET /v1/ventas/:id
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Devuelve al stock cada cantidad vendida. Todo o nada: si algun producto fue eliminado responde 409 PRODUCTO_ELIMINADO sin modificar nada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string            true  "UUID de la venta"
// @Param        body body     dto.AnularRequest false "Motivo de anulacion"
// @Success      200  {object} apierror.Success
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.ConflictError
// @Router       /v1/ventas/{id}/anular [patch]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AnularRequest
	if !bindOptional(c, &req) {
		return
	}
	if err := h.reversion.AnularVenta(c.Request.Context(), id, usuarioRUT(c), req.Motivo); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Venta anulada y stock restaurado"))
}

// DescargarBoleta godoc
// @Summary      Descargar boleta PDF
// @Description  Genera (o regenera) la boleta de la venta y la entrega como adjunto.
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path string true "UUID de la venta"
// @Success      200 {file} file
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id}/boleta [get]
func (h *VentasHandler) DescargarBoleta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, path, err := h.comprobantes.GenerarBoleta(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
