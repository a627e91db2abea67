package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Conflict codes returned to clients when an annulment is rejected.
const (
	CodigoProductoEliminado = "PRODUCTO_ELIMINADO"
	CodigoStockInsuficiente = "STOCK_INSUFICIENTE"
	CodigoYaAnulada         = "YA_ANULADA"
)

// ReversionError rejects an annulment as a whole. Nothing was modified.
type ReversionError struct {
	Code     string
	Detalles []dto.DetalleConflicto
}

func (e *ReversionError) Error() string {
	switch e.Code {
	case CodigoProductoEliminado:
		return fmt.Sprintf("no se puede anular: %d linea(s) referencian productos eliminados", len(e.Detalles))
	case CodigoStockInsuficiente:
		return fmt.Sprintf("no se puede anular: el stock quedaria negativo en %d linea(s)", len(e.Detalles))
	default:
		return "no se puede anular: " + e.Code
	}
}

// ReversionService annuls sales and purchases, reverting their stock effect
// all-or-nothing.
type ReversionService interface {
	// AnularVenta returns each sold quantity to stock. The sale keeps its lines.
	AnularVenta(ctx context.Context, id uuid.UUID, usuarioRUT int, motivo *string) error
	// AnularCompra withdraws each purchased quantity from stock and deletes
	// the purchase lines.
	AnularCompra(ctx context.Context, id uuid.UUID, usuarioRUT int, motivo *string) error
}

type reversionService struct {
	ventas              repository.VentaRepository
	compras             repository.CompraRepository
	inventario          repository.InventarioRepository
	movimientos         repository.MovimientoStockRepository
	stockCriticoDefault int
}

func NewReversionService(
	ventas repository.VentaRepository,
	compras repository.CompraRepository,
	inventario repository.InventarioRepository,
	movimientos repository.MovimientoStockRepository,
	stockCriticoDefault int,
) ReversionService {
	return &reversionService{
		ventas:              ventas,
		compras:             compras,
		inventario:          inventario,
		movimientos:         movimientos,
		stockCriticoDefault: stockCriticoDefault,
	}
}

// lineaReversion is a document line reduced to what the reversal needs.
type lineaReversion struct {
	productoID uuid.UUID
	tallaID    uuid.UUID
	producto   string
	talla      string
	existe     bool
	cantidad   int
	precio     decimal.Decimal
}

func nuevaLinea(productoID, tallaID uuid.UUID, p *model.Producto, t *model.Talla, cantidad int, precio decimal.Decimal) lineaReversion {
	l := lineaReversion{productoID: productoID, tallaID: tallaID, cantidad: cantidad, precio: precio, existe: p != nil}
	if p != nil {
		l.producto = p.Nombre
	}
	if t != nil {
		l.talla = t.Nombre
	}
	return l
}

// ── AnularVenta ───────────────────────────────────────────────────────────────

func (s *reversionService) AnularVenta(ctx context.Context, id uuid.UUID, usuarioRUT int, motivo *string) error {
	var folio int64
	err := runTx(ctx, s.ventas.DB(), func(tx *gorm.DB) error {
		venta, err := s.ventas.FindByIDTx(ctx, tx, id)
		if err != nil {
			return noEncontrado(err, "venta")
		}
		if venta.Estado == model.EstadoAnulada {
			return ErrYaAnulada
		}
		folio = venta.Folio

		lineas := make([]lineaReversion, 0, len(venta.Detalles))
		for _, d := range venta.Detalles {
			lineas = append(lineas, nuevaLinea(d.ProductoID, d.TallaID, d.Producto, d.Talla, d.Cantidad, d.PrecioUnitario))
		}
		ref := fmt.Sprintf("Anulacion venta #%d", venta.Folio)
		if err := s.revertir(ctx, tx, lineas, 1, model.MovAnulacionVenta, venta.ID, usuarioRUT, ref); err != nil {
			return err
		}
		return s.ventas.MarcarAnulada(ctx, tx, id, motivo)
	})
	if err != nil {
		logRechazo(err, "venta", id)
		return err
	}
	log.Info().Str("venta_id", id.String()).Int64("folio", folio).Int("usuario_rut", usuarioRUT).Msg("venta anulada")
	return nil
}

// ── AnularCompra ──────────────────────────────────────────────────────────────

func (s *reversionService) AnularCompra(ctx context.Context, id uuid.UUID, usuarioRUT int, motivo *string) error {
	err := runTx(ctx, s.compras.DB(), func(tx *gorm.DB) error {
		compra, err := s.compras.FindByIDTx(ctx, tx, id)
		if err != nil {
			return noEncontrado(err, "compra")
		}
		if compra.Estado == model.EstadoAnulada {
			return ErrYaAnulada
		}

		lineas := make([]lineaReversion, 0, len(compra.Detalles))
		for _, d := range compra.Detalles {
			lineas = append(lineas, nuevaLinea(d.ProductoID, d.TallaID, d.Producto, d.Talla, d.Cantidad, d.PrecioUnitario))
		}
		ref := "Anulacion compra"
		if compra.NumeroDocumento != nil {
			ref += " doc " + *compra.NumeroDocumento
		}
		if err := s.revertir(ctx, tx, lineas, -1, model.MovAnulacionCompra, compra.ID, usuarioRUT, ref); err != nil {
			return err
		}
		if err := s.compras.EliminarDetalles(ctx, tx, id); err != nil {
			return err
		}
		return s.compras.MarcarAnulada(ctx, tx, id, motivo)
	})
	if err != nil {
		logRechazo(err, "compra", id)
		return err
	}
	log.Info().Str("compra_id", id.String()).Int("usuario_rut", usuarioRUT).Msg("compra anulada")
	return nil
}

// ── revertir ─────────────────────────────────────────────────────────────────
// All checks run before the first write, so a rejected reversal leaves
// inventory untouched even without a rollback:
//   1. every line must reference an existing product
//   2. every locked (producto, talla) must stay >= 0 after its summed delta
//   3. deltas are applied through the conditional update, one movimiento per line

type claveLinea struct {
	productoID uuid.UUID
	tallaID    uuid.UUID
}

func (s *reversionService) revertir(
	ctx context.Context,
	tx *gorm.DB,
	lineas []lineaReversion,
	signo int,
	tipo string,
	referencia uuid.UUID,
	usuarioRUT int,
	motivo string,
) error {
	var eliminados []dto.DetalleConflicto
	for _, l := range lineas {
		if !l.existe {
			eliminados = append(eliminados, dto.DetalleConflicto{
				ProductoID:       l.productoID.String(),
				TallaID:          l.tallaID.String(),
				Talla:            l.talla,
				CantidadRevertir: l.cantidad,
			})
		}
	}
	if len(eliminados) > 0 {
		return &ReversionError{Code: CodigoProductoEliminado, Detalles: eliminados}
	}

	// Sum per (producto, talla) so repeated lines are checked together.
	deltas := make(map[claveLinea]int)
	primera := make(map[claveLinea]lineaReversion)
	var claves []claveLinea
	for _, l := range lineas {
		k := claveLinea{l.productoID, l.tallaID}
		if _, ok := deltas[k]; !ok {
			claves = append(claves, k)
			primera[k] = l
		}
		deltas[k] += signo * l.cantidad
	}
	ordenarClaves(claves)

	faltantes := make(map[claveLinea]bool)
	var insuficientes []dto.DetalleConflicto
	for _, k := range claves {
		actual := 0
		inv, err := s.inventario.ObtenerLinea(ctx, tx, k.productoID, k.tallaID)
		switch {
		case err == nil:
			actual = inv.StockActual
		case repository.IsNotFound(err):
			faltantes[k] = true
		default:
			return err
		}
		if resultante := actual + deltas[k]; resultante < 0 {
			l := primera[k]
			insuficientes = append(insuficientes, dto.DetalleConflicto{
				ProductoID:       k.productoID.String(),
				Producto:         l.producto,
				TallaID:          k.tallaID.String(),
				Talla:            l.talla,
				StockActual:      actual,
				CantidadRevertir: abs(deltas[k]),
				StockResultante:  resultante,
			})
		}
	}
	if len(insuficientes) > 0 {
		return &ReversionError{Code: CodigoStockInsuficiente, Detalles: insuficientes}
	}

	// A sold line whose inventario row was removed is recreated empty before
	// the quantity is returned to it.
	for _, k := range claves {
		if !faltantes[k] {
			continue
		}
		l := primera[k]
		if err := s.inventario.Crear(ctx, tx, &model.Inventario{
			ProductoID:     k.productoID,
			TallaID:        k.tallaID,
			PrecioUnitario: l.precio,
			StockCritico:   s.stockCriticoDefault,
		}); err != nil {
			return err
		}
	}

	for _, l := range lineas {
		delta := signo * l.cantidad
		inv, err := s.inventario.AplicarDelta(ctx, tx, l.productoID, l.tallaID, delta)
		if errors.Is(err, repository.ErrStockInsuficiente) {
			return &ReversionError{Code: CodigoStockInsuficiente, Detalles: []dto.DetalleConflicto{{
				ProductoID:       l.productoID.String(),
				Producto:         l.producto,
				TallaID:          l.tallaID.String(),
				Talla:            l.talla,
				CantidadRevertir: l.cantidad,
			}}}
		}
		if err != nil {
			return err
		}
		ref := referencia
		usuario := usuarioRUT
		mov := &model.MovimientoStock{
			ProductoID:    l.productoID,
			TallaID:       l.tallaID,
			Tipo:          tipo,
			Cantidad:      delta,
			StockAnterior: inv.StockActual - delta,
			StockNuevo:    inv.StockActual,
			Motivo:        motivo,
			ReferenciaID:  &ref,
			UsuarioRUT:    &usuario,
		}
		if err := s.movimientos.CreateTx(ctx, tx, mov); err != nil {
			return err
		}
	}
	return nil
}

// ordenarClaves fixes the row lock order shared by every writer of inventario,
// so two transactions never wait on each other's rows.
func ordenarClaves(claves []claveLinea) {
	sort.Slice(claves, func(i, j int) bool {
		a, b := claves[i], claves[j]
		if a.productoID != b.productoID {
			return a.productoID.String() < b.productoID.String()
		}
		return a.tallaID.String() < b.tallaID.String()
	})
}

func logRechazo(err error, doc string, id uuid.UUID) {
	var rev *ReversionError
	switch {
	case errors.As(err, &rev):
		log.Warn().Str("doc", doc).Str("id", id.String()).Str("code", rev.Code).
			Int("lineas", len(rev.Detalles)).Msg("anulacion rechazada")
	case errors.Is(err, ErrYaAnulada), errors.Is(err, ErrNoEncontrado):
		log.Warn().Str("doc", doc).Str("id", id.String()).Err(err).Msg("anulacion rechazada")
	default:
		log.Error().Str("doc", doc).Str("id", id.String()).Err(err).Msg("anulacion fallida")
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
