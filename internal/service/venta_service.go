package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/rut"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JobDispatcher enqueues async work. Implemented by *worker.Dispatcher.
type JobDispatcher interface {
	EnqueueComprobante(ctx context.Context, payload interface{}) error
}

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioRUT int, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo        repository.VentaRepository
	clientes    repository.ClienteRepository
	inventario  repository.InventarioRepository
	movimientos repository.MovimientoStockRepository
	dispatcher  JobDispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	clientes repository.ClienteRepository,
	inventario repository.InventarioRepository,
	movimientos repository.MovimientoStockRepository,
	dispatcher JobDispatcher,
) VentaService {
	return &ventaService{
		repo:        repo,
		clientes:    clientes,
		inventario:  inventario,
		movimientos: movimientos,
		dispatcher:  dispatcher,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Single transaction:
//   1. Lock every (producto, talla) line and check the summed quantity
//   2. nextval folio, create venta+detalles priced from inventario
//   3. Decrement stock through the conditional update, one movimiento per line
//   4. COMMIT, then (async) enqueue the boleta job

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioRUT int, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	clienteRUT := dto.RUTPtr(req.ClienteRUT)
	var clienteEmail *string
	if clienteRUT != nil {
		c, err := s.clientes.FindByRUT(ctx, *clienteRUT)
		if err != nil {
			return nil, noEncontrado(err, "cliente "+rut.MustFormatear(*clienteRUT))
		}
		clienteEmail = c.Email
	}

	items, err := parseItems(req.Items)
	if err != nil {
		return nil, err
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		solicitado := make(map[claveLinea]int)
		var claves []claveLinea
		for _, it := range items {
			k := claveLinea{it.productoID, it.tallaID}
			if _, ok := solicitado[k]; !ok {
				claves = append(claves, k)
			}
			solicitado[k] += it.cantidad
		}
		ordenarClaves(claves)

		lineas := make(map[claveLinea]*model.Inventario, len(claves))
		for _, k := range claves {
			inv, err := s.inventario.ObtenerLinea(ctx, tx, k.productoID, k.tallaID)
			if err != nil {
				return noEncontrado(err, fmt.Sprintf("producto %s talla %s sin inventario", k.productoID, k.tallaID))
			}
			lineas[k] = inv
		}
		for _, k := range claves {
			if inv, cant := lineas[k], solicitado[k]; inv.StockActual < cant {
				return fmt.Errorf("%w: producto %s talla %s (disponible %d, solicitado %d)",
					ErrStockInsuficiente, k.productoID, k.tallaID, inv.StockActual, cant)
			}
		}

		folio, err := s.repo.NextFolio(ctx, tx)
		if err != nil {
			return err
		}
		venta = model.Venta{
			Folio:      folio,
			ClienteRUT: clienteRUT,
			UsuarioRUT: usuarioRUT,
			Fecha:      time.Now(),
			Estado:     model.EstadoActiva,
		}
		total := decimal.Zero
		for _, it := range items {
			precio := lineas[claveLinea{it.productoID, it.tallaID}].PrecioUnitario
			subtotal := precio.Mul(decimal.NewFromInt(int64(it.cantidad)))
			total = total.Add(subtotal)
			venta.Detalles = append(venta.Detalles, model.DetalleVenta{
				ProductoID:     it.productoID,
				TallaID:        it.tallaID,
				Cantidad:       it.cantidad,
				PrecioUnitario: precio,
				Subtotal:       subtotal,
			})
		}
		venta.Total = total
		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		for _, it := range items {
			inv, err := s.inventario.AplicarDelta(ctx, tx, it.productoID, it.tallaID, -it.cantidad)
			if err != nil {
				return err
			}
			ref := venta.ID
			usuario := usuarioRUT
			mov := &model.MovimientoStock{
				ProductoID:    it.productoID,
				TallaID:       it.tallaID,
				Tipo:          model.MovVenta,
				Cantidad:      -it.cantidad,
				StockAnterior: inv.StockActual + it.cantidad,
				StockNuevo:    inv.StockActual,
				Motivo:        fmt.Sprintf("Venta #%d", folio),
				ReferenciaID:  &ref,
				UsuarioRUT:    &usuario,
			}
			if err := s.movimientos.CreateTx(ctx, tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Str("venta_id", venta.ID.String()).Int64("folio", venta.Folio).
		Str("total", venta.Total.StringFixed(0)).Msg("venta registrada")

	// Async boleta job (best effort)
	if s.dispatcher != nil {
		payload := map[string]interface{}{"venta_id": venta.ID.String()}
		if clienteEmail != nil && *clienteEmail != "" {
			payload["cliente_email"] = *clienteEmail
		}
		if err := s.dispatcher.EnqueueComprobante(ctx, payload); err != nil {
			log.Warn().Err(err).Str("venta_id", venta.ID.String()).Msg("no se pudo encolar la boleta")
		}
	}

	if full, err := s.repo.FindByID(ctx, venta.ID); err == nil {
		return ventaToResponse(full), nil
	}
	return ventaToResponse(&venta), nil
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "venta")
	}
	return ventaToResponse(v), nil
}

// ListVentas returns a paginated list of sales, filtered by date range and estado.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

type itemParseado struct {
	productoID uuid.UUID
	tallaID    uuid.UUID
	cantidad   int
}

func parseItems(req []dto.ItemRequest) ([]itemParseado, error) {
	if len(req) == 0 {
		return nil, fmt.Errorf("%w: la venta no tiene items", ErrDatosInvalidos)
	}
	items := make([]itemParseado, 0, len(req))
	for _, it := range req {
		pid, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id %q", ErrDatosInvalidos, it.ProductoID)
		}
		tid, err := uuid.Parse(it.TallaID)
		if err != nil {
			return nil, fmt.Errorf("%w: talla_id %q", ErrDatosInvalidos, it.TallaID)
		}
		if it.Cantidad < 1 || it.Cantidad > math.MaxInt32 {
			return nil, fmt.Errorf("%w: cantidad %d", ErrDatosInvalidos, it.Cantidad)
		}
		items = append(items, itemParseado{productoID: pid, tallaID: tid, cantidad: it.Cantidad})
	}
	return items, nil
}

func detalleToResponse(productoID, tallaID uuid.UUID, p *model.Producto, t *model.Talla, cantidad int, precio, subtotal decimal.Decimal) dto.DetalleResponse {
	d := dto.DetalleResponse{
		ProductoID:     productoID.String(),
		TallaID:        tallaID.String(),
		Cantidad:       cantidad,
		PrecioUnitario: precio,
		Subtotal:       subtotal,
	}
	if p != nil {
		d.Producto = p.Nombre
	}
	if t != nil {
		d.Talla = t.Nombre
	}
	return d
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	detalles := make([]dto.DetalleResponse, 0, len(v.Detalles))
	for _, d := range v.Detalles {
		detalles = append(detalles, detalleToResponse(d.ProductoID, d.TallaID, d.Producto, d.Talla, d.Cantidad, d.PrecioUnitario, d.Subtotal))
	}
	resp := &dto.VentaResponse{
		ID:              v.ID.String(),
		Folio:           v.Folio,
		UsuarioRUT:      rut.MustFormatear(v.UsuarioRUT),
		Fecha:           v.Fecha.Format(time.RFC3339),
		Total:           v.Total,
		Estado:          v.Estado,
		MotivoAnulacion: v.MotivoAnulacion,
		Detalles:        detalles,
	}
	if v.ClienteRUT != nil {
		s := rut.MustFormatear(*v.ClienteRUT)
		resp.ClienteRUT = &s
	}
	if v.Cliente != nil {
		resp.Cliente = &v.Cliente.Nombre
	}
	return resp
}
