package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	TallaID    string `json:"talla_id"    validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

// RegistrarVentaRequest prices each line from inventario at sale time.
type RegistrarVentaRequest struct {
	ClienteRUT *RUT          `json:"cliente_rut"`
	Items      []ItemRequest `json:"items" validate:"required,min=1,dive"`
}

type VentaFilter struct {
	Desde      string `form:"desde"       validate:"omitempty,datetime=2006-01-02"`
	Hasta      string `form:"hasta"       validate:"omitempty,datetime=2006-01-02"`
	Estado     string `form:"estado"      validate:"omitempty,oneof=activa anulada all"`
	ClienteRUT string `form:"cliente_rut" validate:"omitempty,rut"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// AnularRequest carries an optional reason for an annulment.
type AnularRequest struct {
	Motivo *string `json:"motivo" validate:"omitempty,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	TallaID        string          `json:"talla_id"`
	Talla          string          `json:"talla"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type VentaResponse struct {
	ID              string            `json:"id"`
	Folio           int64             `json:"folio"`
	ClienteRUT      *string           `json:"cliente_rut"`
	Cliente         *string           `json:"cliente"`
	UsuarioRUT      string            `json:"usuario_rut"`
	Fecha           string            `json:"fecha"`
	Total           decimal.Decimal   `json:"total"`
	Estado          string            `json:"estado"`
	MotivoAnulacion *string           `json:"motivo_anulacion,omitempty"`
	Detalles        []DetalleResponse `json:"detalles"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// DetalleConflicto itemizes one line that blocks an annulment.
type DetalleConflicto struct {
	ProductoID       string `json:"producto_id"`
	Producto         string `json:"producto,omitempty"`
	TallaID          string `json:"talla_id"`
	Talla            string `json:"talla,omitempty"`
	StockActual      int    `json:"stock_actual"`
	CantidadRevertir int    `json:"cantidad_revertir"`
	StockResultante  int    `json:"stock_resultante"`
}
