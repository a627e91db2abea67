package infra_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tiendaropa/internal/infra"
	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatearPesos(t *testing.T) {
	casos := map[string]string{
		"0":         "$0",
		"990":       "$990",
		"12990":     "$12.990",
		"1234567":   "$1.234.567",
		"12990.4":   "$12.990",
		"12990.5":   "$12.991",
		"-5000":     "-$5.000",
		"100000000": "$100.000.000",
	}
	for in, esperado := range casos {
		assert.Equal(t, esperado, infra.FormatearPesos(decimal.RequireFromString(in)), in)
	}
}

func TestGenerarBoletaPDF(t *testing.T) {
	dir := t.TempDir()
	clienteRUT := 11111111
	venta := &model.Venta{
		ID:         uuid.New(),
		Folio:      7,
		ClienteRUT: &clienteRUT,
		Cliente:    &model.Cliente{RUT: clienteRUT, Nombre: "Ana Pérez"},
		Fecha:      time.Date(2024, 3, 15, 11, 30, 0, 0, time.Local),
		Total:      decimal.NewFromInt(34980),
		Estado:     model.EstadoAnulada,
		Detalles: []model.DetalleVenta{
			{Cantidad: 2, Subtotal: decimal.NewFromInt(19980), Producto: &model.Producto{Nombre: "Polera algodón"}, Talla: &model.Talla{Nombre: "M"}},
			{Cantidad: 1, Subtotal: decimal.NewFromInt(15000)},
		},
	}

	path, err := infra.GenerarBoletaPDF(venta, "Tienda Ñuñoa", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "boleta_7.pdf"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))

	head := make([]byte, 5)
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.Read(head)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(head))
}
