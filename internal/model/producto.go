package model

import (
	"time"

	"github.com/google/uuid"
)

// Producto is a catalog item. Stock and price live per talla in Inventario.
// Products are hard-deleted; sale and purchase lines keep the dangling id.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Marca       *string
	CategoriaID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Categoria  *Categoria   `gorm:"foreignKey:CategoriaID"`
	Inventario []Inventario `gorm:"foreignKey:ProductoID"`
}
