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

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// FindByIDTx locks the header FOR UPDATE and loads lines with their
	// product. A nil Detalle.Producto means the product was deleted.
	FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venta, error)
	MarcarAnulada(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo *string) error
	NextFolio(ctx context.Context, tx *gorm.DB) (int64, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return conn(ctx, r.db, tx).Omit("Cliente", "Usuario").Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Detalles.Producto").
		Preload("Detalles.Talla").
		First(&v, "id = ?", id).Error
	return &v, err
}

func (r *ventaRepo) FindByIDTx(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	if err := conn(ctx, r.db, tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Lines are loaded apart so the lock stays on the header row only.
	err := conn(ctx, r.db, tx).
		Preload("Producto").
		Preload("Talla").
		Where("venta_id = ?", id).
		Find(&v.Detalles).Error
	return &v, err
}

func (r *ventaRepo) MarcarAnulada(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo *string) error {
	return conn(ctx, r.db, tx).Model(&model.Venta{}).Where("id = ?", id).Updates(map[string]interface{}{
		"estado":           model.EstadoAnulada,
		"motivo_anulacion": motivo,
		"anulada_at":       time.Now(),
	}).Error
}

func (r *ventaRepo) NextFolio(ctx context.Context, tx *gorm.DB) (int64, error) {
	// Uses a PostgreSQL sequence for atomic folio generation
	var n int64
	err := conn(ctx, r.db, tx).Raw("SELECT nextval('ventas_folio_seq')").Scan(&n).Error
	return n, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("fecha >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("fecha < (?::date + 1)", filter.Hasta)
	}
	if filter.ClienteRUT != "" {
		// Validated by the handler; the formatted value is resolved here.
		q = q.Where("cliente_rut = ?", rutCuerpo(filter.ClienteRUT))
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 50, 200)
	err := q.Preload("Cliente").Preload("Detalles.Producto").Preload("Detalles.Talla").
		Order("fecha DESC").
		Offset(offset).Limit(limit).
		Find(&ventas).Error

	return ventas, total, err
}
