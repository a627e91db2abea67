package model

import (
	"time"

	"github.com/google/uuid"
)

// Comprobante tracks the boleta PDF generated for a Venta.
// Estado: "pendiente" | "emitido" | "error"
type Comprobante struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Estado  string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// PDFPath is relative to PDF_STORAGE_PATH
	PDFPath   *string `gorm:"column:pdf_path"`
	EnviadoA  *string
	EnviadoAt *time.Time
	LastError *string
	Intentos  int `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
