package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Inventario is the stock line for one (producto, talla) pair.
// StockActual never goes below zero.
type Inventario struct {
	ProductoID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TallaID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	StockActual    int             `gorm:"not null;default:0;check:stock_actual >= 0"`
	StockCritico   int             `gorm:"not null;default:5;check:stock_critico >= 0"`
	UpdatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Talla    *Talla    `gorm:"foreignKey:TallaID"`
}

// TableName keeps the singular name used by reports and raw SQL.
func (Inventario) TableName() string { return "inventario" }

// EnAlerta reports whether the line is at or below its critical level.
func (i Inventario) EnAlerta() bool { return i.StockActual <= i.StockCritico }
