package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HistorialPrecio registra cada cambio de precio_unitario de una línea de
// inventario. Los registros son inmutables.
type HistorialPrecio struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TallaID        uuid.UUID       `gorm:"type:uuid;not null"`
	PrecioAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioNuevo    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Origen         string          `gorm:"type:varchar(20);not null"` // manual | compra
	UsuarioRUT     *int            `gorm:"column:usuario_rut"`
	CreatedAt      time.Time

	Talla *Talla `gorm:"foreignKey:TallaID"`
}

func (HistorialPrecio) TableName() string { return "historial_precios" }
