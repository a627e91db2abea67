package handler

import (
	"net/http"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type ProveedoresHandler struct{ svc service.ProveedorService }

func NewProveedoresHandler(svc service.ProveedorService) *ProveedoresHandler {
	return &ProveedoresHandler{svc: svc}
}

// Crear POST /v1/proveedores
func (h *ProveedoresHandler) Crear(c *gin.Context) {
	var req dto.CrearProveedorRequest
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

// Listar GET /v1/proveedores?incluir_inactivos=true
func (h *ProveedoresHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), c.Query("incluir_inactivos") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorRUT GET /v1/proveedores/:rut
func (h *ProveedoresHandler) ObtenerPorRUT(c *gin.Context) {
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

// Actualizar PUT /v1/proveedores/:rut
func (h *ProveedoresHandler) Actualizar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	var req dto.ActualizarProveedorRequest
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

// Eliminar DELETE /v1/proveedores/:rut (soft delete)
func (h *ProveedoresHandler) Eliminar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Proveedor desactivado"))
}

// Reactivar PATCH /v1/proveedores/:rut/reactivar
func (h *ProveedoresHandler) Reactivar(c *gin.Context) {
	r, ok := parseRUT(c, "rut")
	if !ok {
		return
	}
	if err := h.svc.Reactivar(c.Request.Context(), r); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Proveedor reactivado"))
}
