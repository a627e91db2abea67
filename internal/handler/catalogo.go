package handler

import (
	"net/http"

	"tiendaropa/internal/apierror"
	"tiendaropa/internal/dto"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// CrearCategoria POST /v1/categorias
func (h *CatalogoHandler) CrearCategoria(c *gin.Context) {
	var req dto.CrearCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearCategoria(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarCategorias GET /v1/categorias?todas=true
func (h *CatalogoHandler) ListarCategorias(c *gin.Context) {
	resp, err := h.svc.ListarCategorias(c.Request.Context(), c.Query("todas") != "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarCategoria PUT /v1/categorias/:id
func (h *CatalogoHandler) ActualizarCategoria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarCategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarCategoria(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DesactivarCategoria DELETE /v1/categorias/:id
func (h *CatalogoHandler) DesactivarCategoria(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DesactivarCategoria(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Categoria desactivada"))
}

// CrearTalla POST /v1/tallas
func (h *CatalogoHandler) CrearTalla(c *gin.Context) {
	var req dto.CrearTallaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTalla(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarTallas GET /v1/tallas
func (h *CatalogoHandler) ListarTallas(c *gin.Context) {
	resp, err := h.svc.ListarTallas(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EliminarTalla DELETE /v1/tallas/:id
func (h *CatalogoHandler) EliminarTalla(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarTalla(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK("Talla eliminada"))
}
