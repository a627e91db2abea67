package dto

import "github.com/shopspring/decimal"

type RangoFechasQuery struct {
	Desde string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"required,datetime=2006-01-02"`
}

type TopProductosQuery struct {
	Desde  string `form:"desde"  validate:"required,datetime=2006-01-02"`
	Hasta  string `form:"hasta"  validate:"required,datetime=2006-01-02"`
	Limite int    `form:"limite,default=10" validate:"min=1,max=100"`
}

type ResumenVentasResponse struct {
	Desde          string          `json:"desde"`
	Hasta          string          `json:"hasta"`
	CantidadVentas int64           `json:"cantidad_ventas"`
	TotalVendido   decimal.Decimal `json:"total_vendido"`
	Anuladas       int64           `json:"anuladas"`
	TicketPromedio decimal.Decimal `json:"ticket_promedio"`
}

type ResumenComprasResponse struct {
	Desde           string          `json:"desde"`
	Hasta           string          `json:"hasta"`
	CantidadCompras int64           `json:"cantidad_compras"`
	TotalComprado   decimal.Decimal `json:"total_comprado"`
	Anuladas        int64           `json:"anuladas"`
}

type ProductoVendidoResponse struct {
	ProductoID string          `json:"producto_id"`
	Producto   string          `json:"producto"`
	Unidades   int64           `json:"unidades"`
	Monto      decimal.Decimal `json:"monto"`
}

type StockCriticoResponse struct {
	Data       []InventarioResponse `json:"data"`
	Total      int                  `json:"total"`
	Generado   string               `json:"generado"`
	DesdeCache bool                 `json:"desde_cache"`
}
