package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService defines the contract for per-talla stock management.
type InventarioService interface {
	Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.InventarioListResponse, error)
	Upsert(ctx context.Context, usuarioRUT int, req dto.UpsertInventarioRequest) (*dto.InventarioResponse, error)
	Ajustar(ctx context.Context, usuarioRUT int, req dto.AjusteStockRequest) (*dto.InventarioResponse, error)
	ObtenerAlertas(ctx context.Context) ([]dto.InventarioResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
	HistorialPrecios(ctx context.Context, productoID uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error)
}

type inventarioService struct {
	repo                repository.InventarioRepository
	productos           repository.ProductoRepository
	tallas              repository.TallaRepository
	movimientos         repository.MovimientoStockRepository
	historial           repository.HistorialPrecioRepository
	stockCriticoDefault int
}

func NewInventarioService(
	repo repository.InventarioRepository,
	productos repository.ProductoRepository,
	tallas repository.TallaRepository,
	movimientos repository.MovimientoStockRepository,
	historial repository.HistorialPrecioRepository,
	stockCriticoDefault int,
) InventarioService {
	return &inventarioService{
		repo:                repo,
		productos:           productos,
		tallas:              tallas,
		movimientos:         movimientos,
		historial:           historial,
		stockCriticoDefault: stockCriticoDefault,
	}
}

func (s *inventarioService) Listar(ctx context.Context, filter dto.InventarioFilter) (*dto.InventarioListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	lineas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.InventarioResponse, 0, len(lineas))
	for i := range lineas {
		data = append(data, inventarioToResponse(&lineas[i]))
	}
	return &dto.InventarioListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Upsert creates the line with zero stock or updates price and critical
// level. A price change is appended to historial_precios.
func (s *inventarioService) Upsert(ctx context.Context, usuarioRUT int, req dto.UpsertInventarioRequest) (*dto.InventarioResponse, error) {
	pid, tid, err := parseLinea(req.ProductoID, req.TallaID)
	if err != nil {
		return nil, err
	}
	if !req.PrecioUnitario.IsPositive() {
		return nil, fmt.Errorf("%w: precio_unitario debe ser positivo", ErrDatosInvalidos)
	}
	producto, err := s.productos.FindByID(ctx, pid)
	if err != nil {
		return nil, noEncontrado(err, "producto")
	}
	talla, err := s.tallas.ObtenerPorID(ctx, tid)
	if err != nil {
		return nil, noEncontrado(err, "talla")
	}

	var result model.Inventario
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		actual, err := s.repo.ObtenerLinea(ctx, tx, pid, tid)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}

		result = model.Inventario{
			ProductoID:     pid,
			TallaID:        tid,
			PrecioUnitario: req.PrecioUnitario,
			StockCritico:   s.stockCriticoDefault,
			UpdatedAt:      time.Now(),
		}
		if actual != nil {
			result.StockActual = actual.StockActual
			result.StockCritico = actual.StockCritico
		}
		if req.StockCritico != nil {
			result.StockCritico = *req.StockCritico
		}
		if err := s.repo.Upsert(ctx, tx, &result); err != nil {
			return err
		}

		if actual != nil && !actual.PrecioUnitario.Equal(req.PrecioUnitario) {
			usuario := usuarioRUT
			return s.historial.CreateTx(ctx, tx, &model.HistorialPrecio{
				ProductoID:     pid,
				TallaID:        tid,
				PrecioAnterior: actual.PrecioUnitario,
				PrecioNuevo:    req.PrecioUnitario,
				Origen:         "manual",
				UsuarioRUT:     &usuario,
			})
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	result.Producto = producto
	result.Talla = talla
	resp := inventarioToResponse(&result)
	return &resp, nil
}

// Ajustar applies a manual correction. Stock never goes below zero.
func (s *inventarioService) Ajustar(ctx context.Context, usuarioRUT int, req dto.AjusteStockRequest) (*dto.InventarioResponse, error) {
	pid, tid, err := parseLinea(req.ProductoID, req.TallaID)
	if err != nil {
		return nil, err
	}
	if req.Delta == 0 {
		return nil, fmt.Errorf("%w: delta no puede ser 0", ErrDatosInvalidos)
	}

	var inv *model.Inventario
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.ObtenerLinea(ctx, tx, pid, tid); err != nil {
			return noEncontrado(err, "linea de inventario")
		}
		var err error
		inv, err = s.repo.AplicarDelta(ctx, tx, pid, tid, req.Delta)
		if err != nil {
			return err
		}
		usuario := usuarioRUT
		return s.movimientos.CreateTx(ctx, tx, &model.MovimientoStock{
			ProductoID:    pid,
			TallaID:       tid,
			Tipo:          model.MovAjuste,
			Cantidad:      req.Delta,
			StockAnterior: inv.StockActual - req.Delta,
			StockNuevo:    inv.StockActual,
			Motivo:        req.Motivo,
			UsuarioRUT:    &usuario,
		})
	})
	if txErr != nil {
		if errors.Is(txErr, ErrStockInsuficiente) {
			return nil, fmt.Errorf("%w: el ajuste dejaria stock negativo", ErrStockInsuficiente)
		}
		return nil, txErr
	}

	log.Info().Str("producto_id", pid.String()).Str("talla_id", tid.String()).
		Int("delta", req.Delta).Int("stock", inv.StockActual).Msg("ajuste de stock")
	resp := inventarioToResponse(inv)
	return &resp, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.InventarioResponse, error) {
	lineas, err := s.repo.ListCriticos(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.InventarioResponse, 0, len(lineas))
	for i := range lineas {
		resp = append(resp, inventarioToResponse(&lineas[i]))
	}
	return resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 100
	}
	movs, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		r := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			ProductoID:    m.ProductoID.String(),
			TallaID:       m.TallaID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
		if m.Producto != nil {
			r.Producto = m.Producto.Nombre
		}
		if m.Talla != nil {
			r.Talla = m.Talla.Nombre
		}
		if m.ReferenciaID != nil {
			ref := m.ReferenciaID.String()
			r.ReferenciaID = &ref
		}
		data = append(data, r)
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventarioService) HistorialPrecios(ctx context.Context, productoID uuid.UUID, page, limit int) (*dto.HistorialPrecioListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	rows, total, err := s.historial.ListByProducto(ctx, productoID, page, limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.HistorialPrecioResponse, 0, len(rows))
	for _, h := range rows {
		r := dto.HistorialPrecioResponse{
			ID:             h.ID.String(),
			TallaID:        h.TallaID.String(),
			PrecioAnterior: h.PrecioAnterior,
			PrecioNuevo:    h.PrecioNuevo,
			Origen:         h.Origen,
			CreatedAt:      h.CreatedAt.Format(time.RFC3339),
		}
		if h.Talla != nil {
			r.Talla = h.Talla.Nombre
		}
		data = append(data, r)
	}
	return &dto.HistorialPrecioListResponse{Data: data, Total: total, Page: page, Limit: limit}, nil
}

func parseLinea(productoID, tallaID string) (uuid.UUID, uuid.UUID, error) {
	pid, err := uuid.Parse(productoID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: producto_id %q", ErrDatosInvalidos, productoID)
	}
	tid, err := uuid.Parse(tallaID)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: talla_id %q", ErrDatosInvalidos, tallaID)
	}
	return pid, tid, nil
}

func inventarioToResponse(i *model.Inventario) dto.InventarioResponse {
	r := dto.InventarioResponse{
		ProductoID:     i.ProductoID.String(),
		TallaID:        i.TallaID.String(),
		PrecioUnitario: i.PrecioUnitario,
		StockActual:    i.StockActual,
		StockCritico:   i.StockCritico,
		EnAlerta:       i.EnAlerta(),
	}
	if i.Producto != nil {
		r.Producto = i.Producto.Nombre
	}
	if i.Talla != nil {
		r.Talla = i.Talla.Nombre
	}
	return r
}
