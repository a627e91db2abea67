package dto

import "github.com/shopspring/decimal"

// UpsertInventarioRequest creates or updates the (producto, talla) line.
// Stock is only changed through ventas, compras and ajustes.
type UpsertInventarioRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	TallaID        string          `json:"talla_id"        validate:"required,uuid"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"gt=0"`
	StockCritico   *int            `json:"stock_critico"   validate:"omitempty,min=0"`
}

// AjusteStockRequest applies a signed manual correction.
type AjusteStockRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	TallaID    string `json:"talla_id"    validate:"required,uuid"`
	Delta      int    `json:"delta"       validate:"required,ne=0"`
	Motivo     string `json:"motivo"      validate:"required,min=3,max=200"`
}

type InventarioFilter struct {
	ProductoID  string `form:"producto_id"  validate:"omitempty,uuid"`
	TallaID     string `form:"talla_id"     validate:"omitempty,uuid"`
	CategoriaID string `form:"categoria_id" validate:"omitempty,uuid"`
	SoloAlerta  bool   `form:"solo_alerta"`
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type InventarioResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	TallaID        string          `json:"talla_id"`
	Talla          string          `json:"talla"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	StockActual    int             `json:"stock_actual"`
	StockCritico   int             `json:"stock_critico"`
	EnAlerta       bool            `json:"en_alerta"`
}

type InventarioListResponse struct {
	Data  []InventarioResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

type MovimientoFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=venta compra anulacion_venta anulacion_compra ajuste"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type MovimientoStockResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto"`
	TallaID       string  `json:"talla_id"`
	Talla         string  `json:"talla"`
	Tipo          string  `json:"tipo"`
	Cantidad      int     `json:"cantidad"`
	StockAnterior int     `json:"stock_anterior"`
	StockNuevo    int     `json:"stock_nuevo"`
	Motivo        string  `json:"motivo"`
	ReferenciaID  *string `json:"referencia_id"`
	CreatedAt     string  `json:"created_at"`
}

type MovimientoListResponse struct {
	Data  []MovimientoStockResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}

type HistorialPrecioResponse struct {
	ID             string          `json:"id"`
	TallaID        string          `json:"talla_id"`
	Talla          string          `json:"talla"`
	PrecioAnterior decimal.Decimal `json:"precio_anterior"`
	PrecioNuevo    decimal.Decimal `json:"precio_nuevo"`
	Origen         string          `json:"origen"`
	CreatedAt      string          `json:"created_at"`
}

type HistorialPrecioListResponse struct {
	Data  []HistorialPrecioResponse `json:"data"`
	Total int64                     `json:"total"`
	Page  int                       `json:"page"`
	Limit int                       `json:"limit"`
}
