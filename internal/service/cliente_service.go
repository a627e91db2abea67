package service

import (
	"context"
	"fmt"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/rut"
)

type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorRUT(ctx context.Context, rut int) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error)
	Actualizar(ctx context.Context, rut int, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error)
	// Eliminar refuses clients that appear on a sale.
	Eliminar(ctx context.Context, rut int) error
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{
		RUT:       req.RUT.Int(),
		Nombre:    req.Nombre,
		Email:     req.Email,
		Telefono:  req.Telefono,
		Direccion: req.Direccion,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, duplicado(err, "cliente "+rut.MustFormatear(c.RUT))
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorRUT(ctx context.Context, r int) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByRUT(ctx, r)
	if err != nil {
		return nil, noEncontrado(err, "cliente "+rut.MustFormatear(r))
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Listar(ctx context.Context, filter dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	clientes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ClienteResponse, 0, len(clientes))
	for i := range clientes {
		data = append(data, *clienteToResponse(&clientes[i]))
	}
	return &dto.ClienteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *clienteService) Actualizar(ctx context.Context, r int, req dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	c, err := s.repo.FindByRUT(ctx, r)
	if err != nil {
		return nil, noEncontrado(err, "cliente "+rut.MustFormatear(r))
	}
	if req.Nombre != nil {
		c.Nombre = *req.Nombre
	}
	if req.Email != nil {
		c.Email = req.Email
	}
	if req.Telefono != nil {
		c.Telefono = req.Telefono
	}
	if req.Direccion != nil {
		c.Direccion = req.Direccion
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return clienteToResponse(c), nil
}

func (s *clienteService) Eliminar(ctx context.Context, r int) error {
	conVentas, err := s.repo.TieneVentas(ctx, r)
	if err != nil {
		return err
	}
	if conVentas {
		return fmt.Errorf("cliente %s tiene ventas registradas: %w", rut.MustFormatear(r), ErrEnUso)
	}
	return noEncontrado(s.repo.Delete(ctx, r), "cliente "+rut.MustFormatear(r))
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		RUT:       rut.MustFormatear(c.RUT),
		Nombre:    c.Nombre,
		Email:     c.Email,
		Telefono:  c.Telefono,
		Direccion: c.Direccion,
	}
}
