package model

import "time"

// Cliente is a buyer identified by RUT. Sales may reference a cliente or be
// anonymous.
type Cliente struct {
	RUT       int    `gorm:"column:rut;primaryKey;autoIncrement:false"`
	Nombre    string `gorm:"not null;index"`
	Email     *string
	Telefono  *string
	Direccion *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
