package repository

import (
	"context"
	"time"

	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResumenRow aggregates headers within a date range.
type ResumenRow struct {
	Cantidad int64
	Total    decimal.Decimal
	Anuladas int64
}

// ProductoVendidoRow is one row of the top-products ranking.
type ProductoVendidoRow struct {
	ProductoID uuid.UUID
	Nombre     string
	Unidades   int64
	Monto      decimal.Decimal
}

// ReporteRepository runs read-only aggregate queries. Only activa
// documents count towards totals.
type ReporteRepository interface {
	ResumenVentas(ctx context.Context, desde, hasta time.Time) (ResumenRow, error)
	ResumenCompras(ctx context.Context, desde, hasta time.Time) (ResumenRow, error)
	TopProductos(ctx context.Context, desde, hasta time.Time, limite int) ([]ProductoVendidoRow, error)
}

type reporteRepo struct{ db *gorm.DB }

func NewReporteRepository(db *gorm.DB) ReporteRepository { return &reporteRepo{db: db} }

func (r *reporteRepo) ResumenVentas(ctx context.Context, desde, hasta time.Time) (ResumenRow, error) {
	return r.resumen(ctx, &model.Venta{}, desde, hasta)
}

func (r *reporteRepo) ResumenCompras(ctx context.Context, desde, hasta time.Time) (ResumenRow, error) {
	return r.resumen(ctx, &model.Compra{}, desde, hasta)
}

func (r *reporteRepo) resumen(ctx context.Context, m interface{}, desde, hasta time.Time) (ResumenRow, error) {
	var row ResumenRow
	err := r.db.WithContext(ctx).Model(m).
		Select(`COUNT(*) FILTER (WHERE estado = 'activa') AS cantidad,
		        COALESCE(SUM(total) FILTER (WHERE estado = 'activa'), 0) AS total,
		        COUNT(*) FILTER (WHERE estado = 'anulada') AS anuladas`).
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Scan(&row).Error
	return row, err
}

func (r *reporteRepo) TopProductos(ctx context.Context, desde, hasta time.Time, limite int) ([]ProductoVendidoRow, error) {
	var rows []ProductoVendidoRow
	err := r.db.WithContext(ctx).
		Table("detalles_venta d").
		Select(`d.producto_id, COALESCE(p.nombre, '') AS nombre,
		        SUM(d.cantidad) AS unidades, SUM(d.subtotal) AS monto`).
		Joins("JOIN ventas v ON v.id = d.venta_id").
		Joins("LEFT JOIN productos p ON p.id = d.producto_id").
		Where("v.estado = ? AND v.fecha >= ? AND v.fecha < ?", model.EstadoActiva, desde, hasta).
		Group("d.producto_id, p.nombre").
		Order("unidades DESC").
		Limit(limite).
		Scan(&rows).Error
	return rows, err
}
