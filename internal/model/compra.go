package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Compra is a purchase from a Proveedor. Annulling it deletes its lines.
type Compra struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorRUT    int             `gorm:"column:proveedor_rut;not null;index"`
	UsuarioRUT      int             `gorm:"column:usuario_rut;not null"`
	NumeroDocumento *string         `gorm:"type:varchar(40)"`
	Fecha           time.Time       `gorm:"not null;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'activa'"`
	MotivoAnulacion *string
	AnuladaAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Proveedor *Proveedor      `gorm:"foreignKey:ProveedorRUT;references:RUT"`
	Detalles  []DetalleCompra `gorm:"foreignKey:CompraID"`
}

// DetalleCompra is one purchased (producto, talla) line at cost price.
type DetalleCompra struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TallaID        uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Talla    *Talla    `gorm:"foreignKey:TallaID"`
}

func (DetalleCompra) TableName() string { return "detalles_compra" }
