package repository

import (
	"context"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"

	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByRUT(ctx context.Context, rut int) (*model.Cliente, error)
	List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error)
	Update(ctx context.Context, c *model.Cliente) error
	Delete(ctx context.Context, rut int) error
	TieneVentas(ctx context.Context, rut int) (bool, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByRUT(ctx context.Context, rut int) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "rut = ?", rut).Error
	return &c, err
}

func (r *clienteRepo) List(ctx context.Context, filter dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var clientes []model.Cliente
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Cliente{})
	if filter.Nombre != "" {
		q = q.Where("nombre ILIKE ?", "%"+filter.Nombre+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	_, limit, offset := paginar(filter.Page, filter.Limit, 20, 100)
	err := q.Order("nombre ASC").Limit(limit).Offset(offset).Find(&clientes).Error
	return clientes, total, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) Delete(ctx context.Context, rut int) error {
	res := r.db.WithContext(ctx).Delete(&model.Cliente{}, "rut = ?", rut)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *clienteRepo) TieneVentas(ctx context.Context, rut int) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Venta{}).Where("cliente_rut = ?", rut).Limit(1).Count(&n).Error
	return n > 0, err
}
