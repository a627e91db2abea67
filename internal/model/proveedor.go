package model

import (
	"time"
)

// Proveedor represents a supplier with commercial data.
type Proveedor struct {
	RUT         int    `gorm:"column:rut;primaryKey;autoIncrement:false"`
	RazonSocial string `gorm:"not null"`
	Giro        *string
	Telefono    *string
	Email       *string
	Direccion   *string
	Activo      bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Proveedor) TableName() string { return "proveedores" }
