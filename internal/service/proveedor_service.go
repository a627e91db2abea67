package service

import (
	"context"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/rut"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorRUT(ctx context.Context, rut int) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, rut int, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	// Eliminar is a soft delete; purchases keep referencing the supplier.
	Eliminar(ctx context.Context, rut int) error
	Reactivar(ctx context.Context, rut int) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{
		RUT:         req.RUT.Int(),
		RazonSocial: req.RazonSocial,
		Giro:        req.Giro,
		Telefono:    req.Telefono,
		Email:       req.Email,
		Direccion:   req.Direccion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, "proveedor "+rut.MustFormatear(p.RUT))
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorRUT(ctx context.Context, r int) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByRUT(ctx, r)
	if err != nil {
		return nil, noEncontrado(err, "proveedor "+rut.MustFormatear(r))
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	list, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, 0, len(list))
	for i := range list {
		resp = append(resp, *proveedorToResponse(&list[i]))
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, r int, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByRUT(ctx, r)
	if err != nil {
		return nil, noEncontrado(err, "proveedor "+rut.MustFormatear(r))
	}
	if req.RazonSocial != nil {
		p.RazonSocial = *req.RazonSocial
	}
	if req.Giro != nil {
		p.Giro = req.Giro
	}
	if req.Telefono != nil {
		p.Telefono = req.Telefono
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.Direccion != nil {
		p.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Eliminar(ctx context.Context, r int) error {
	return noEncontrado(s.repo.SetActivo(ctx, r, false), "proveedor "+rut.MustFormatear(r))
}

func (s *proveedorService) Reactivar(ctx context.Context, r int) error {
	return noEncontrado(s.repo.SetActivo(ctx, r, true), "proveedor "+rut.MustFormatear(r))
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		RUT:         rut.MustFormatear(p.RUT),
		RazonSocial: p.RazonSocial,
		Giro:        p.Giro,
		Telefono:    p.Telefono,
		Email:       p.Email,
		Direccion:   p.Direccion,
		Activo:      p.Activo,
	}
}
