package repository

import (
	"context"

	"tiendaropa/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	Create(ctx context.Context, u *model.Usuario) error
	FindByRUT(ctx context.Context, rut int) (*model.Usuario, error)
	FindByEmail(ctx context.Context, email string) (*model.Usuario, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error)
	Update(ctx context.Context, u *model.Usuario) error
	SetActivo(ctx context.Context, rut int, activo bool) error
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) Create(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *usuarioRepo) FindByRUT(ctx context.Context, rut int) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).First(&u, "rut = ?", rut).Error
	return &u, err
}

func (r *usuarioRepo) FindByEmail(ctx context.Context, email string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var users []model.Usuario
	q := r.db.WithContext(ctx)
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&users).Error
	return users, err
}

func (r *usuarioRepo) Update(ctx context.Context, u *model.Usuario) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *usuarioRepo) SetActivo(ctx context.Context, rut int, activo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Usuario{}).Where("rut = ?", rut).Update("activo", activo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
