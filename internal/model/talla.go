package model

import (
	"github.com/google/uuid"
)

// Talla is a size dimension of the inventory (XS, S, M, 38, 40...).
// Orden drives display order in listings.
type Talla struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre string    `gorm:"type:varchar(20);uniqueIndex;not null"`
	Orden  int       `gorm:"not null;default:0"`
}
