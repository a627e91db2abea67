package repository

import (
	"context"

	"tiendaropa/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaRepository defines CRUD operations for Categoria.
type CategoriaRepository interface {
	Crear(ctx context.Context, c *model.Categoria) error
	Listar(ctx context.Context, soloActivas bool) ([]model.Categoria, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error)
	ObtenerPorNombre(ctx context.Context, nombre string) (*model.Categoria, error)
	Actualizar(ctx context.Context, c *model.Categoria) error
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaRepository struct{ db *gorm.DB }

func NewCategoriaRepository(db *gorm.DB) CategoriaRepository {
	return &categoriaRepository{db: db}
}

func (r *categoriaRepository) Crear(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoriaRepository) Listar(ctx context.Context, soloActivas bool) ([]model.Categoria, error) {
	var list []model.Categoria
	q := r.db.WithContext(ctx)
	if soloActivas {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre asc").Find(&list).Error
	return list, err
}

func (r *categoriaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) ObtenerPorNombre(ctx context.Context, nombre string) (*model.Categoria, error) {
	var c model.Categoria
	err := r.db.WithContext(ctx).Where("lower(nombre) = lower(?)", nombre).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoriaRepository) Actualizar(ctx context.Context, c *model.Categoria) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoriaRepository) Desactivar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&model.Categoria{}).Where("id = ?", id).Update("activo", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TallaRepository covers the size catalog. Tallas in use by inventario
// cannot be deleted (FK restrict).
type TallaRepository interface {
	Crear(ctx context.Context, t *model.Talla) error
	Listar(ctx context.Context) ([]model.Talla, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Talla, error)
	EnUso(ctx context.Context, id uuid.UUID) (bool, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type tallaRepository struct{ db *gorm.DB }

func NewTallaRepository(db *gorm.DB) TallaRepository {
	return &tallaRepository{db: db}
}

func (r *tallaRepository) Crear(ctx context.Context, t *model.Talla) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tallaRepository) Listar(ctx context.Context) ([]model.Talla, error) {
	var list []model.Talla
	err := r.db.WithContext(ctx).Order("orden asc, nombre asc").Find(&list).Error
	return list, err
}

func (r *tallaRepository) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Talla, error) {
	var t model.Talla
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tallaRepository) EnUso(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Inventario{}).Where("talla_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *tallaRepository) Eliminar(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.Talla{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
