package repository

import (
	"context"

	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ComprobanteRepository interface {
	// ObtenerOCrear returns the comprobante for ventaID, inserting a
	// pendiente row the first time. Safe to call from concurrent workers.
	ObtenerOCrear(ctx context.Context, ventaID uuid.UUID) (*model.Comprobante, error)
	FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Comprobante, error)
	Update(ctx context.Context, c *model.Comprobante) error
}

type comprobanteRepo struct{ db *gorm.DB }

func NewComprobanteRepository(db *gorm.DB) ComprobanteRepository {
	return &comprobanteRepo{db: db}
}

func (r *comprobanteRepo) ObtenerOCrear(ctx context.Context, ventaID uuid.UUID) (*model.Comprobante, error) {
	c := &model.Comprobante{VentaID: ventaID, Estado: "pendiente"}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "venta_id"}}, DoNothing: true}).
		Create(c).Error; err != nil {
		return nil, err
	}
	return r.FindByVentaID(ctx, ventaID)
}

func (r *comprobanteRepo) FindByVentaID(ctx context.Context, ventaID uuid.UUID) (*model.Comprobante, error) {
	var c model.Comprobante
	err := r.db.WithContext(ctx).Where("venta_id = ?", ventaID).First(&c).Error
	return &c, err
}

func (r *comprobanteRepo) Update(ctx context.Context, c *model.Comprobante) error {
	return r.db.WithContext(ctx).Save(c).Error
}
