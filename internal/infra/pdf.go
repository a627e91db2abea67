package infra

// pdf.go: boleta generation using go-pdf/fpdf.
// Thermal-receipt sized page (74mm wide) with:
//   - Store name header
//   - Folio, fecha and cliente RUT
//   - Item table (producto / talla, cantidad, subtotal)
//   - Bold total
//   - ANULADA stamp when the sale was annulled
//
// The output file is saved to storagePath/boleta_{folio}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tiendaropa/internal/model"
	"tiendaropa/internal/rut"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// BoletaFileName is the file name used for the boleta of folio.
func BoletaFileName(folio int64) string {
	return fmt.Sprintf("boleta_%d.pdf", folio)
}

// GenerarBoletaPDF renders the boleta for venta. Detalles must be loaded;
// Producto and Talla are optional. Returns the path of the written file.
func GenerarBoletaPDF(venta *model.Venta, tienda, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, BoletaFileName(venta.Folio))

	alto := 70.0 + 5.0*float64(len(venta.Detalles))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(tienda), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Boleta de venta", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Folio N%s %d", tr("°"), venta.Folio), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venta.ClienteRUT != nil {
		cliente := "Cliente: " + rut.MustFormatear(*venta.ClienteRUT)
		if venta.Cliente != nil {
			cliente += " " + venta.Cliente.Nombre
		}
		pdf.CellFormat(contentW, 4, tr(truncar(cliente, 40)), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.56
	col2 := contentW * 0.14
	col3 := contentW * 0.30

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		nombre := "(producto eliminado)"
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if d.Talla != nil {
			nombre += " " + d.Talla.Nombre
		}
		pdf.CellFormat(col1, 5, tr(truncar(nombre, 26)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, FormatearPesos(d.Subtotal), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, FormatearPesos(venta.Total), "", 1, "R", false, 0, "")

	if venta.Estado == model.EstadoAnulada {
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(contentW, 6, "ANULADA", "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// FormatearPesos renders an amount as Chilean pesos: "$12.990".
func FormatearPesos(monto decimal.Decimal) string {
	neg := monto.IsNegative()
	digitos := monto.Abs().Round(0).String()
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digitos {
		if i > 0 && (len(digitos)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func truncar(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "."
}
