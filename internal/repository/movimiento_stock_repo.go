package repository

import (
	"context"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"

	"gorm.io/gorm"
)

type MovimientoStockRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoStock) error
	List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.MovimientoStock) error {
	return conn(ctx, r.db, tx).Omit("Producto", "Talla").Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoStock{})
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 100, 500)
	var movimientos []model.MovimientoStock
	err := q.Preload("Producto").Preload("Talla").
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}
