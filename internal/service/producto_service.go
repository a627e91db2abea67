package service

import (
	"context"
	"fmt"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	// Eliminar hard-deletes the product. Documents that reference it can no
	// longer be annulled.
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo       repository.ProductoRepository
	categorias repository.CategoriaRepository
}

func NewProductoService(repo repository.ProductoRepository, categorias repository.CategoriaRepository) ProductoService {
	return &productoService{repo: repo, categorias: categorias}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Marca:       req.Marca,
	}
	if err := s.asignarCategoria(ctx, p, req.CategoriaID); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		data = append(data, *productoToResponse(&productos[i]))
	}
	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &dto.ProductoListResponse{
		Data:       data,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Marca != nil {
		p.Marca = req.Marca
	}
	if req.CategoriaID != nil {
		if err := s.asignarCategoria(ctx, p, req.CategoriaID); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productoToResponse(p), nil
}

func (s *productoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return noEncontrado(err, "producto")
	}
	log.Info().Str("producto_id", id.String()).Msg("producto eliminado del catalogo")
	return nil
}

func (s *productoService) asignarCategoria(ctx context.Context, p *model.Producto, categoriaID *string) error {
	if categoriaID == nil || *categoriaID == "" {
		p.CategoriaID = nil
		p.Categoria = nil
		return nil
	}
	cid, err := uuid.Parse(*categoriaID)
	if err != nil {
		return fmt.Errorf("%w: categoria_id %q", ErrDatosInvalidos, *categoriaID)
	}
	c, err := s.categorias.ObtenerPorID(ctx, cid)
	if err != nil {
		return noEncontrado(err, "categoria")
	}
	if !c.Activo {
		return fmt.Errorf("categoria %s: %w", c.Nombre, ErrInactivo)
	}
	p.CategoriaID = &cid
	p.Categoria = c
	return nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Marca:       p.Marca,
		Tallas:      make([]dto.InventarioResumen, 0, len(p.Inventario)),
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	for _, inv := range p.Inventario {
		r := dto.InventarioResumen{
			TallaID:        inv.TallaID.String(),
			PrecioUnitario: inv.PrecioUnitario,
			StockActual:    inv.StockActual,
		}
		if inv.Talla != nil {
			r.Talla = inv.Talla.Nombre
		}
		resp.Tallas = append(resp.Tallas, r)
	}
	return resp
}
