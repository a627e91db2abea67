package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de MovimientoStock.
const (
	MovVenta           = "venta"
	MovCompra          = "compra"
	MovAnulacionVenta  = "anulacion_venta"
	MovAnulacionCompra = "anulacion_compra"
	MovAjuste          = "ajuste"
)

// MovimientoStock registra cada cambio de stock de una línea de inventario.
// Se crea al vender, comprar, anular o ajustar manualmente.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TallaID       uuid.UUID `gorm:"type:uuid;not null"`
	Tipo          string    `gorm:"type:varchar(20);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	ReferenciaID  *uuid.UUID `gorm:"type:uuid;index"` // venta_id or compra_id
	UsuarioRUT    *int       `gorm:"column:usuario_rut"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Talla    *Talla    `gorm:"foreignKey:TallaID"`
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
