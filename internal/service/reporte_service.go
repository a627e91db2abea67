package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	stockCriticoCacheKey = "reportes:stock_critico"
	stockCriticoCacheTTL = 60 * time.Second
	fechaLayout          = "2006-01-02"
)

type ReporteService interface {
	ResumenVentas(ctx context.Context, q dto.RangoFechasQuery) (*dto.ResumenVentasResponse, error)
	ResumenCompras(ctx context.Context, q dto.RangoFechasQuery) (*dto.ResumenComprasResponse, error)
	TopProductos(ctx context.Context, q dto.TopProductosQuery) ([]dto.ProductoVendidoResponse, error)
	// StockCritico is served from Redis for a short TTL when rdb is set.
	StockCritico(ctx context.Context) (*dto.StockCriticoResponse, error)
}

type reporteService struct {
	repo       repository.ReporteRepository
	inventario repository.InventarioRepository
	rdb        *redis.Client
}

// NewReporteService accepts a nil rdb; the critical-stock report is then
// computed on every call.
func NewReporteService(repo repository.ReporteRepository, inventario repository.InventarioRepository, rdb *redis.Client) ReporteService {
	return &reporteService{repo: repo, inventario: inventario, rdb: rdb}
}

func (s *reporteService) ResumenVentas(ctx context.Context, q dto.RangoFechasQuery) (*dto.ResumenVentasResponse, error) {
	desde, hasta, err := parseRango(q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.ResumenVentas(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	promedio := decimal.Zero
	if row.Cantidad > 0 {
		promedio = row.Total.Div(decimal.NewFromInt(row.Cantidad)).Round(0)
	}
	return &dto.ResumenVentasResponse{
		Desde:          q.Desde,
		Hasta:          q.Hasta,
		CantidadVentas: row.Cantidad,
		TotalVendido:   row.Total,
		Anuladas:       row.Anuladas,
		TicketPromedio: promedio,
	}, nil
}

func (s *reporteService) ResumenCompras(ctx context.Context, q dto.RangoFechasQuery) (*dto.ResumenComprasResponse, error) {
	desde, hasta, err := parseRango(q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.ResumenCompras(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	return &dto.ResumenComprasResponse{
		Desde:           q.Desde,
		Hasta:           q.Hasta,
		CantidadCompras: row.Cantidad,
		TotalComprado:   row.Total,
		Anuladas:        row.Anuladas,
	}, nil
}

func (s *reporteService) TopProductos(ctx context.Context, q dto.TopProductosQuery) ([]dto.ProductoVendidoResponse, error) {
	desde, hasta, err := parseRango(q.Desde, q.Hasta)
	if err != nil {
		return nil, err
	}
	limite := q.Limite
	if limite < 1 {
		limite = 10
	}
	rows, err := s.repo.TopProductos(ctx, desde, hasta, limite)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoVendidoResponse, 0, len(rows))
	for _, r := range rows {
		nombre := r.Nombre
		if nombre == "" {
			nombre = "(producto eliminado)"
		}
		resp = append(resp, dto.ProductoVendidoResponse{
			ProductoID: r.ProductoID.String(),
			Producto:   nombre,
			Unidades:   r.Unidades,
			Monto:      r.Monto,
		})
	}
	return resp, nil
}

func (s *reporteService) StockCritico(ctx context.Context) (*dto.StockCriticoResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, stockCriticoCacheKey).Bytes(); err == nil {
			var cached dto.StockCriticoResponse
			if json.Unmarshal(raw, &cached) == nil {
				cached.DesdeCache = true
				return &cached, nil
			}
		} else if err != redis.Nil {
			log.Warn().Err(err).Msg("reportes: redis get stock_critico failed")
		}
	}

	lineas, err := s.inventario.ListCriticos(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.StockCriticoResponse{
		Data:     make([]dto.InventarioResponse, 0, len(lineas)),
		Generado: time.Now().UTC().Format(time.RFC3339),
	}
	for i := range lineas {
		resp.Data = append(resp.Data, inventarioToResponse(&lineas[i]))
	}
	resp.Total = len(resp.Data)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, stockCriticoCacheKey, data, stockCriticoCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("reportes: redis set stock_critico failed")
			}
		}
	}
	return resp, nil
}

// parseRango returns [desde 00:00, hasta+1 00:00) in local time.
func parseRango(desdeStr, hastaStr string) (time.Time, time.Time, error) {
	desde, err := time.ParseInLocation(fechaLayout, desdeStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: desde %q", ErrDatosInvalidos, desdeStr)
	}
	hasta, err := time.ParseInLocation(fechaLayout, hastaStr, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: hasta %q", ErrDatosInvalidos, hastaStr)
	}
	if hasta.Before(desde) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: hasta anterior a desde", ErrDatosInvalidos)
	}
	return desde, hasta.AddDate(0, 0, 1), nil
}
