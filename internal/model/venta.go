package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados shared by Venta and Compra. activa → anulada is the only transition.
const (
	EstadoActiva  = "activa"
	EstadoAnulada = "anulada"
)

// Venta is a sale header. Lines are immutable once created and are kept when
// the sale is annulled.
type Venta struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio           int64           `gorm:"uniqueIndex;not null"`
	ClienteRUT      *int            `gorm:"column:cliente_rut;index"`
	UsuarioRUT      int             `gorm:"column:usuario_rut;not null;index"`
	Fecha           time.Time       `gorm:"not null;index"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado          string          `gorm:"type:varchar(20);not null;default:'activa'"`
	MotivoAnulacion *string
	AnuladaAt       *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Cliente  *Cliente       `gorm:"foreignKey:ClienteRUT;references:RUT"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioRUT;references:RUT"`
	Detalles []DetalleVenta `gorm:"foreignKey:VentaID"`
}

// DetalleVenta is one sold (producto, talla) line at the price of the moment.
type DetalleVenta struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	TallaID        uuid.UUID       `gorm:"type:uuid;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Producto is nil when the product was deleted from the catalog.
	Producto *Producto `gorm:"foreignKey:ProductoID"`
	Talla    *Talla    `gorm:"foreignKey:TallaID"`
}

func (DetalleVenta) TableName() string { return "detalles_venta" }
