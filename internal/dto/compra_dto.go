package dto

import "github.com/shopspring/decimal"

type ItemCompraRequest struct {
	ProductoID     string          `json:"producto_id"     validate:"required,uuid"`
	TallaID        string          `json:"talla_id"        validate:"required,uuid"`
	Cantidad       int             `json:"cantidad"        validate:"required,min=1"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario" validate:"gt=0"`
}

type RegistrarCompraRequest struct {
	ProveedorRUT    RUT                 `json:"proveedor_rut"    validate:"required"`
	NumeroDocumento *string             `json:"numero_documento" validate:"omitempty,max=40"`
	Items           []ItemCompraRequest `json:"items"            validate:"required,min=1,dive"`
}

type CompraFilter struct {
	Desde        string `form:"desde"         validate:"omitempty,datetime=2006-01-02"`
	Hasta        string `form:"hasta"         validate:"omitempty,datetime=2006-01-02"`
	Estado       string `form:"estado"        validate:"omitempty,oneof=activa anulada all"`
	ProveedorRUT string `form:"proveedor_rut" validate:"omitempty,rut"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CompraResponse struct {
	ID              string            `json:"id"`
	ProveedorRUT    string            `json:"proveedor_rut"`
	Proveedor       string            `json:"proveedor"`
	NumeroDocumento *string           `json:"numero_documento"`
	Fecha           string            `json:"fecha"`
	Total           decimal.Decimal   `json:"total"`
	Estado          string            `json:"estado"`
	MotivoAnulacion *string           `json:"motivo_anulacion,omitempty"`
	Detalles        []DetalleResponse `json:"detalles"`
}

type CompraListResponse struct {
	Data  []CompraResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
