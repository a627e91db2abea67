package handler

import (
	"net/http"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// ResumenVentas GET /v1/reportes/ventas?desde=&hasta=
func (h *ReportesHandler) ResumenVentas(c *gin.Context) {
	var q dto.RangoFechasQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.ResumenVentas(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ResumenCompras GET /v1/reportes/compras?desde=&hasta=
func (h *ReportesHandler) ResumenCompras(c *gin.Context) {
	var q dto.RangoFechasQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.ResumenCompras(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TopProductos GET /v1/reportes/top-productos?desde=&hasta=&limite=
func (h *ReportesHandler) TopProductos(c *gin.Context) {
	var q dto.TopProductosQuery
	if !bindQuery(c, &q) {
		return
	}
	resp, err := h.svc.TopProductos(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// StockCritico GET /v1/reportes/stock-critico
func (h *ReportesHandler) StockCritico(c *gin.Context) {
	resp, err := h.svc.StockCritico(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
