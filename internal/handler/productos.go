package handler

import (
	"net/http"
	"strconv"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductosHandler struct {
	svc        service.ProductoService
	inventario service.InventarioService
}

func NewProductosHandler(svc service.ProductoService, inventario service.InventarioService) *ProductosHandler {
	return &ProductosHandler{svc: svc, inventario: inventario}
}

// Crear POST /v1/productos
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
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

// Listar GET /v1/productos
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
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

// ObtenerPorID GET /v1/productos/:id
func (h *ProductosHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar PUT /v1/productos/:id
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar producto
// @Description  Borra el producto y sus lineas de inventario. Las ventas y compras que lo referencian ya no podran anularse.
// @Tags         productos
// @Produce      json
// @Security     BearerAuth
// @Param        id  path     string true "UUID del producto"
// @Success      200 {object} apierror.Success
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [delete]
func (h *ProductosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Producto eliminado"))
}

// HistorialPrecios GET /v1/productos/:id/historial-precios?page=&limit=
func (h *ProductosHandler) HistorialPrecios(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	resp, err := h.inventario.HistorialPrecios(c.Request.Context(), id, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
