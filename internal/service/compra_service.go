package service

import (
	"context"
	"fmt"
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

type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioRUT int, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListCompras(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo                repository.CompraRepository
	proveedores         repository.ProveedorRepository
	productos           repository.ProductoRepository
	tallas              repository.TallaRepository
	inventario          repository.InventarioRepository
	movimientos         repository.MovimientoStockRepository
	stockCriticoDefault int
}

func NewCompraService(
	repo repository.CompraRepository,
	proveedores repository.ProveedorRepository,
	productos repository.ProductoRepository,
	tallas repository.TallaRepository,
	inventario repository.InventarioRepository,
	movimientos repository.MovimientoStockRepository,
	stockCriticoDefault int,
) CompraService {
	return &compraService{
		repo:                repo,
		proveedores:         proveedores,
		productos:           productos,
		tallas:              tallas,
		inventario:          inventario,
		movimientos:         movimientos,
		stockCriticoDefault: stockCriticoDefault,
	}
}

// RegistrarCompra increments stock for every line. A (producto, talla) pair
// without an inventario line gets one, priced at the purchase cost.
func (s *compraService) RegistrarCompra(ctx context.Context, usuarioRUT int, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	prov, err := s.proveedores.FindByRUT(ctx, req.ProveedorRUT.Int())
	if err != nil {
		return nil, noEncontrado(err, "proveedor "+rut.MustFormatear(req.ProveedorRUT.Int()))
	}
	if !prov.Activo {
		return nil, fmt.Errorf("proveedor %s: %w", rut.MustFormatear(prov.RUT), ErrInactivo)
	}

	type itemCompra struct {
		productoID uuid.UUID
		tallaID    uuid.UUID
		cantidad   int
		precio     decimal.Decimal
	}
	items := make([]itemCompra, 0, len(req.Items))
	productosVistos := make(map[uuid.UUID]bool)
	tallasVistas := make(map[uuid.UUID]bool)
	for _, it := range req.Items {
		pid, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("%w: producto_id %q", ErrDatosInvalidos, it.ProductoID)
		}
		tid, err := uuid.Parse(it.TallaID)
		if err != nil {
			return nil, fmt.Errorf("%w: talla_id %q", ErrDatosInvalidos, it.TallaID)
		}
		if it.Cantidad < 1 || !it.PrecioUnitario.IsPositive() {
			return nil, fmt.Errorf("%w: cantidad y precio deben ser positivos", ErrDatosInvalidos)
		}
		if !productosVistos[pid] {
			if _, err := s.productos.FindByID(ctx, pid); err != nil {
				return nil, noEncontrado(err, "producto "+pid.String())
			}
			productosVistos[pid] = true
		}
		if !tallasVistas[tid] {
			if _, err := s.tallas.ObtenerPorID(ctx, tid); err != nil {
				return nil, noEncontrado(err, "talla "+tid.String())
			}
			tallasVistas[tid] = true
		}
		items = append(items, itemCompra{pid, tid, it.Cantidad, it.PrecioUnitario})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la compra no tiene items", ErrDatosInvalidos)
	}

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		compra = model.Compra{
			ProveedorRUT:    prov.RUT,
			UsuarioRUT:      usuarioRUT,
			NumeroDocumento: req.NumeroDocumento,
			Fecha:           time.Now(),
			Estado:          model.EstadoActiva,
		}
		total := decimal.Zero
		for _, it := range items {
			subtotal := it.precio.Mul(decimal.NewFromInt(int64(it.cantidad)))
			total = total.Add(subtotal)
			compra.Detalles = append(compra.Detalles, model.DetalleCompra{
				ProductoID:     it.productoID,
				TallaID:        it.tallaID,
				Cantidad:       it.cantidad,
				PrecioUnitario: it.precio,
				Subtotal:       subtotal,
			})
		}
		compra.Total = total
		if err := s.repo.Create(ctx, tx, &compra); err != nil {
			return err
		}

		var claves []claveLinea
		precio := make(map[claveLinea]decimal.Decimal)
		for _, it := range items {
			k := claveLinea{it.productoID, it.tallaID}
			if _, ok := precio[k]; !ok {
				claves = append(claves, k)
				precio[k] = it.precio
			}
		}
		ordenarClaves(claves)
		for _, k := range claves {
			_, err := s.inventario.ObtenerLinea(ctx, tx, k.productoID, k.tallaID)
			if repository.IsNotFound(err) {
				err = s.inventario.Crear(ctx, tx, &model.Inventario{
					ProductoID:     k.productoID,
					TallaID:        k.tallaID,
					PrecioUnitario: precio[k],
					StockCritico:   s.stockCriticoDefault,
				})
			}
			if err != nil {
				return err
			}
		}

		for _, it := range items {
			inv, err := s.inventario.AplicarDelta(ctx, tx, it.productoID, it.tallaID, it.cantidad)
			if err != nil {
				return err
			}
			ref := compra.ID
			usuario := usuarioRUT
			mov := &model.MovimientoStock{
				ProductoID:    it.productoID,
				TallaID:       it.tallaID,
				Tipo:          model.MovCompra,
				Cantidad:      it.cantidad,
				StockAnterior: inv.StockActual - it.cantidad,
				StockNuevo:    inv.StockActual,
				Motivo:        "Compra a " + prov.RazonSocial,
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

	log.Info().Str("compra_id", compra.ID.String()).Int("proveedor_rut", prov.RUT).
		Str("total", compra.Total.StringFixed(0)).Msg("compra registrada")

	if full, err := s.repo.FindByID(ctx, compra.ID); err == nil {
		return compraToResponse(full), nil
	}
	compra.Proveedor = prov
	return compraToResponse(&compra), nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "compra")
	}
	return compraToResponse(c), nil
}

func (s *compraService) ListCompras(ctx context.Context, filter dto.CompraFilter) (*dto.CompraListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	compras, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CompraResponse, 0, len(compras))
	for i := range compras {
		data = append(data, *compraToResponse(&compras[i]))
	}
	return &dto.CompraListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	detalles := make([]dto.DetalleResponse, 0, len(c.Detalles))
	for _, d := range c.Detalles {
		detalles = append(detalles, detalleToResponse(d.ProductoID, d.TallaID, d.Producto, d.Talla, d.Cantidad, d.PrecioUnitario, d.Subtotal))
	}
	resp := &dto.CompraResponse{
		ID:              c.ID.String(),
		ProveedorRUT:    rut.MustFormatear(c.ProveedorRUT),
		NumeroDocumento: c.NumeroDocumento,
		Fecha:           c.Fecha.Format(time.RFC3339),
		Total:           c.Total,
		Estado:          c.Estado,
		MotivoAnulacion: c.MotivoAnulacion,
		Detalles:        detalles,
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.RazonSocial
	}
	return resp
}
