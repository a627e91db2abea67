package service

import (
	"context"
	"errors"
	"fmt"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogoService defines business operations for categorias and tallas.
type CatalogoService interface {
	CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error)
	ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	DesactivarCategoria(ctx context.Context, id uuid.UUID) error

	CrearTalla(ctx context.Context, req dto.CrearTallaRequest) (dto.TallaResponse, error)
	ListarTallas(ctx context.Context) ([]dto.TallaResponse, error)
	EliminarTalla(ctx context.Context, id uuid.UUID) error
}

type catalogoService struct {
	categorias repository.CategoriaRepository
	tallas     repository.TallaRepository
}

func NewCatalogoService(categorias repository.CategoriaRepository, tallas repository.TallaRepository) CatalogoService {
	return &catalogoService{categorias: categorias, tallas: tallas}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:          c.ID.String(),
		Nombre:      c.Nombre,
		Descripcion: c.Descripcion,
		Activo:      c.Activo,
	}
}

func (s *catalogoService) CrearCategoria(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	// Check for duplicate name
	existing, err := s.categorias.ObtenerPorNombre(ctx, req.Nombre)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.CategoriaResponse{}, err
	}
	if existing != nil {
		return dto.CategoriaResponse{}, fmt.Errorf("categoria %q: %w", req.Nombre, ErrDuplicado)
	}

	c := &model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.categorias.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, duplicado(err, "categoria")
	}
	return mapCategoria(*c), nil
}

func (s *catalogoService) ListarCategorias(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.categorias.Listar(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *catalogoService) ActualizarCategoria(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.categorias.ObtenerPorID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, noEncontrado(err, "categoria")
	}

	if req.Nombre != nil {
		// Check uniqueness if name is changing
		if *req.Nombre != c.Nombre {
			existing, err := s.categorias.ObtenerPorNombre(ctx, *req.Nombre)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.CategoriaResponse{}, err
			}
			if existing != nil && existing.ID != id {
				return dto.CategoriaResponse{}, fmt.Errorf("categoria %q: %w", *req.Nombre, ErrDuplicado)
			}
		}
		c.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		c.Descripcion = req.Descripcion
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}

	if err := s.categorias.Actualizar(ctx, c); err != nil {
		return dto.CategoriaResponse{}, duplicado(err, "categoria")
	}
	return mapCategoria(*c), nil
}

func (s *catalogoService) DesactivarCategoria(ctx context.Context, id uuid.UUID) error {
	return noEncontrado(s.categorias.Desactivar(ctx, id), "categoria")
}

func mapTalla(t model.Talla) dto.TallaResponse {
	return dto.TallaResponse{ID: t.ID.String(), Nombre: t.Nombre, Orden: t.Orden}
}

func (s *catalogoService) CrearTalla(ctx context.Context, req dto.CrearTallaRequest) (dto.TallaResponse, error) {
	t := &model.Talla{Nombre: req.Nombre, Orden: req.Orden}
	if err := s.tallas.Crear(ctx, t); err != nil {
		return dto.TallaResponse{}, duplicado(err, "talla "+req.Nombre)
	}
	return mapTalla(*t), nil
}

func (s *catalogoService) ListarTallas(ctx context.Context) ([]dto.TallaResponse, error) {
	list, err := s.tallas.Listar(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.TallaResponse, 0, len(list))
	for _, t := range list {
		result = append(result, mapTalla(t))
	}
	return result, nil
}

// EliminarTalla refuses sizes that still have inventario lines.
func (s *catalogoService) EliminarTalla(ctx context.Context, id uuid.UUID) error {
	enUso, err := s.tallas.EnUso(ctx, id)
	if err != nil {
		return err
	}
	if enUso {
		return fmt.Errorf("talla con inventario: %w", ErrEnUso)
	}
	return noEncontrado(s.tallas.Eliminar(ctx, id), "talla")
}
