package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string  `json:"nombre"       validate:"required,min=2,max=120"`
	Descripcion *string `json:"descripcion"`
	Marca       *string `json:"marca"        validate:"omitempty,max=80"`
	CategoriaID *string `json:"categoria_id" validate:"omitempty,uuid"`
}

type ActualizarProductoRequest struct {
	Nombre      *string `json:"nombre"       validate:"omitempty,min=2,max=120"`
	Descripcion *string `json:"descripcion"`
	Marca       *string `json:"marca"        validate:"omitempty,max=80"`
	CategoriaID *string `json:"categoria_id" validate:"omitempty,uuid"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID          string              `json:"id"`
	Nombre      string              `json:"nombre"`
	Descripcion *string             `json:"descripcion"`
	Marca       *string             `json:"marca"`
	CategoriaID *string             `json:"categoria_id"`
	Categoria   *string             `json:"categoria"`
	Tallas      []InventarioResumen `json:"tallas"`
}

// InventarioResumen is the per-talla stock embedded in a product.
type InventarioResumen struct {
	TallaID        string          `json:"talla_id"`
	Talla          string          `json:"talla"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	StockActual    int             `json:"stock_actual"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
