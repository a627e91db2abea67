package repository

import (
	"context"

	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HistorialPrecioRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, h *model.HistorialPrecio) error
	ListByProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.HistorialPrecio, int64, error)
}

type historialPrecioRepository struct{ db *gorm.DB }

func NewHistorialPrecioRepository(db *gorm.DB) HistorialPrecioRepository {
	return &historialPrecioRepository{db: db}
}

func (r *historialPrecioRepository) CreateTx(ctx context.Context, tx *gorm.DB, h *model.HistorialPrecio) error {
	return conn(ctx, r.db, tx).Omit("Talla").Create(h).Error
}

// ListByProducto returns paginated price-change records for one product,
// ordered newest-first (append-only table, so this reflects natural insert order).
func (r *historialPrecioRepository) ListByProducto(
	ctx context.Context,
	productoID uuid.UUID,
	page, limit int,
) ([]model.HistorialPrecio, int64, error) {
	_, limit, offset := paginar(page, limit, 50, 200)

	var total int64
	if err := r.db.WithContext(ctx).
		Model(&model.HistorialPrecio{}).
		Where("producto_id = ?", productoID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.HistorialPrecio
	if err := r.db.WithContext(ctx).
		Where("producto_id = ?", productoID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Preload("Talla").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
