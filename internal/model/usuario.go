package model

import (
	"time"
)

// Roles accepted in Usuario.Rol and in JWT claims.
const (
	RolAdministrador = "administrador"
	RolVendedor      = "vendedor"
	RolBodeguero     = "bodeguero"
)

// Usuario stores system users with role-based access.
// RUT is the numeric body only; the verifier is derived when formatting.
type Usuario struct {
	RUT          int     `gorm:"column:rut;primaryKey;autoIncrement:false"`
	Nombre       string  `gorm:"not null"`
	Email        *string `gorm:"uniqueIndex"`
	PasswordHash string  `gorm:"not null"`
	Rol          string  `gorm:"type:varchar(20);not null"`
	Activo       bool    `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
