package repository

import (
	"context"

	"tiendaropa/internal/model"

	"gorm.io/gorm"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByRUT(ctx context.Context, rut int) (*model.Proveedor, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Proveedor, error)
	Update(ctx context.Context, p *model.Proveedor) error
	SetActivo(ctx context.Context, rut int, activo bool) error
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByRUT(ctx context.Context, rut int) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).First(&p, "rut = ?", rut).Error
	return &p, err
}

func (r *proveedorRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("razon_social ASC").Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SetActivo implements the supplier soft delete.
func (r *proveedorRepo) SetActivo(ctx context.Context, rut int, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("rut = ?", rut).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
