//go:build integration

package repository_test

// Runs against a real Postgres started with testcontainers.
// Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tiendaropa/internal/infra"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"
	"tiendaropa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("tiendaropa_test"),
		tcpostgres.WithUsername("tienda"),
		tcpostgres.WithPassword("tienda"),
		testcontainers.WithWaitStrategy(tcpostgres.BasicWaitStrategies()...),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn, true)
	require.NoError(t, err)
	return db
}

type catalogo struct {
	producto model.Producto
	talla    model.Talla
}

func sembrar(t *testing.T, db *gorm.DB, stock int) catalogo {
	t.Helper()
	c := catalogo{
		producto: model.Producto{Nombre: "Polera " + uuid.NewString()[:8]},
		talla:    model.Talla{Nombre: uuid.NewString()[:8]},
	}
	require.NoError(t, db.Create(&c.producto).Error)
	require.NoError(t, db.Create(&c.talla).Error)
	require.NoError(t, db.Create(&model.Inventario{
		ProductoID:     c.producto.ID,
		TallaID:        c.talla.ID,
		PrecioUnitario: decimal.NewFromInt(9990),
		StockActual:    stock,
		StockCritico:   5,
	}).Error)
	return c
}

func TestIntegration(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	inv := repository.NewInventarioRepository(db)

	t.Run("AplicarDelta respeta el piso cero", func(t *testing.T) {
		c := sembrar(t, db, 3)

		got, err := inv.AplicarDelta(ctx, nil, c.producto.ID, c.talla.ID, -3)
		require.NoError(t, err)
		assert.Equal(t, 0, got.StockActual)

		_, err = inv.AplicarDelta(ctx, nil, c.producto.ID, c.talla.ID, -1)
		assert.ErrorIs(t, err, repository.ErrStockInsuficiente)

		_, err = inv.AplicarDelta(ctx, nil, uuid.New(), c.talla.ID, 1)
		assert.True(t, repository.IsNotFound(err))
	})

	t.Run("AplicarDelta concurrente nunca sobrevende", func(t *testing.T) {
		c := sembrar(t, db, 5)
		var ok int32
		var wg sync.WaitGroup
		for i := 0; i < 12; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := inv.AplicarDelta(ctx, nil, c.producto.ID, c.talla.ID, -1); err == nil {
					atomic.AddInt32(&ok, 1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(5), ok)

		linea, err := inv.ObtenerLinea(ctx, nil, c.producto.ID, c.talla.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, linea.StockActual)
	})

	t.Run("folios consecutivos", func(t *testing.T) {
		ventas := repository.NewVentaRepository(db)
		a, err := ventas.NextFolio(ctx, nil)
		require.NoError(t, err)
		b, err := ventas.NextFolio(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, a+1, b)
	})

	t.Run("anular venta con producto eliminado", func(t *testing.T) {
		c := sembrar(t, db, 10)
		ventas := repository.NewVentaRepository(db)
		venta := &model.Venta{
			Folio:      time.Now().UnixNano(),
			UsuarioRUT: 12345678,
			Fecha:      time.Now(),
			Total:      decimal.NewFromInt(9990),
			Estado:     model.EstadoActiva,
			Detalles: []model.DetalleVenta{{
				ProductoID:     c.producto.ID,
				TallaID:        c.talla.ID,
				Cantidad:       1,
				PrecioUnitario: decimal.NewFromInt(9990),
				Subtotal:       decimal.NewFromInt(9990),
			}},
		}
		require.NoError(t, ventas.Create(ctx, nil, venta))
		require.NoError(t, repository.NewProductoRepository(db).Delete(ctx, c.producto.ID))

		rev := service.NewReversionService(ventas, repository.NewCompraRepository(db), inv, repository.NewMovimientoStockRepository(db), 5)
		err := rev.AnularVenta(ctx, venta.ID, 12345678, nil)

		var rerr *service.ReversionError
		require.True(t, errors.As(err, &rerr), "err: %v", err)
		assert.Equal(t, service.CodigoProductoEliminado, rerr.Code)

		got, err := ventas.FindByID(ctx, venta.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EstadoActiva, got.Estado)
	})

	t.Run("anular compra revierte en la misma transaccion", func(t *testing.T) {
		c := sembrar(t, db, 4)
		compras := repository.NewCompraRepository(db)
		compra := &model.Compra{
			ProveedorRUT: 76086428,
			UsuarioRUT:   12345678,
			Fecha:        time.Now(),
			Total:        decimal.NewFromInt(30000),
			Estado:       model.EstadoActiva,
			Detalles: []model.DetalleCompra{{
				ProductoID:     c.producto.ID,
				TallaID:        c.talla.ID,
				Cantidad:       6,
				PrecioUnitario: decimal.NewFromInt(5000),
				Subtotal:       decimal.NewFromInt(30000),
			}},
		}
		require.NoError(t, compras.Create(ctx, nil, compra))
		movs := repository.NewMovimientoStockRepository(db)
		rev := service.NewReversionService(repository.NewVentaRepository(db), compras, inv, movs, 5)

		// 4 - 6 < 0: rejected, nothing changes.
		err := rev.AnularCompra(ctx, compra.ID, 12345678, nil)
		var rerr *service.ReversionError
		require.True(t, errors.As(err, &rerr), "err: %v", err)
		assert.Equal(t, service.CodigoStockInsuficiente, rerr.Code)

		_, err = inv.AplicarDelta(ctx, nil, c.producto.ID, c.talla.ID, 2)
		require.NoError(t, err)
		require.NoError(t, rev.AnularCompra(ctx, compra.ID, 12345678, nil))

		linea, err := inv.ObtenerLinea(ctx, nil, c.producto.ID, c.talla.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, linea.StockActual)

		got, err := compras.FindByID(ctx, compra.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EstadoAnulada, got.Estado)
		assert.Empty(t, got.Detalles)

		err = rev.AnularCompra(ctx, compra.ID, 12345678, nil)
		assert.ErrorIs(t, err, service.ErrYaAnulada)
	})
}
