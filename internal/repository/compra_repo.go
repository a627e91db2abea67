package repository

import (
	"context"
	"time"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CompraRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	// FindByIDTx locks the header FOR UPDATE and loads lines with their product.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Compra, error)
	MarcarAnulada(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo *string) error
	EliminarDetalles(ctx context.Context, tx *gorm.DB, compraID uuid.UUID) error
	List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error)
	DB() *gorm.DB
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	return conn(ctx, r.db, tx).Omit("Proveedor").Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Preload("Detalles.Producto").
		Preload("Detalles.Talla").
		First(&c, "id = ?", id).Error
	return &c, err
}

func (r *compraRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	if err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Lines are loaded apart so the lock stays on the header row only.
	err := conn(ctx, r.db, tx).
		Preload("Producto").
		Preload("Talla").
		Where("compra_id = ?", id).
		Find(&c.Detalles).Error
	return &c, err
}

func (r *compraRepo) MarcarAnulada(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo *string) error {
	return conn(ctx, r.db, tx).Model(&model.Compra{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estado":           model.EstadoAnulada,
		"motivo_anulacion": motivo,
		"anulada_at":       time.Now(),
	}).Error
}

func (r *compraRepo) EliminarDetalles(ctx context.Context, tx *gorm.DB, compraID uuid.UUID) error {
	return conn(ctx, r.db, tx).Where("compra_id = ?", compraID).Delete(&model.DetalleCompra{}).Error
}

func (r *compraRepo) List(ctx context.Context, filter dto.CompraFilter) ([]model.Compra, int64, error) {
	var compras []model.Compra
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha < (?::date + 1)", filter.Hasta)
	}
	if filter.ProveedorRUT != "" {
		q = q.Where("proveedor_rut = ?", rutCuerpo(filter.ProveedorRUT))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 50, 200)
	err := q.Preload("Proveedor").Preload("Detalles.Producto").Preload("Detalles.Talla").
		Order("fecha DESC").
		Offset(offset).Limit(limit).
		Find(&compras).Error
	return compras, total, err
}
