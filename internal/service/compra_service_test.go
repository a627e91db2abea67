package service_test

import (
	"context"
	"testing"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rutProveedor = 76086428

func nuevaCompraSvc(inv *stubInventarioRepo, movs *stubMovimientoRepo, compras *stubCompraRepo, p *model.Producto, ts ...model.Talla) service.CompraService {
	proveedores := newStubProveedorRepo(
		model.Proveedor{RUT: rutProveedor, RazonSocial: "Textiles del Sur SpA", Activo: true},
		model.Proveedor{RUT: 11111111, RazonSocial: "Inactivo Ltda", Activo: false},
	)
	return service.NewCompraService(compras, proveedores, newStubProductoRepo(*p), newStubTallaRepo(ts...), inv, movs, 5)
}

func itemCompra(pid, tid uuid.UUID, cantidad int, precio int64) dto.ItemCompraRequest {
	return dto.ItemCompraRequest{ProductoID: pid.String(), TallaID: tid.String(), Cantidad: cantidad, PrecioUnitario: decimalPesos(precio)}
}

func TestRegistrarCompra_IncrementaStockYCreaLineas(t *testing.T) {
	inv, movs, compras := newStubInventarioRepo(), &stubMovimientoRepo{}, newStubCompraRepo()
	p := model.Producto{ID: uuid.New(), Nombre: "Polera"}
	m, l := model.Talla{ID: uuid.New(), Nombre: "M"}, model.Talla{ID: uuid.New(), Nombre: "L"}
	inv.set(p.ID, m.ID, 2, 9990)
	svc := nuevaCompraSvc(inv, movs, compras, &p, m, l)

	resp, err := svc.RegistrarCompra(context.Background(), rutAdmin, dto.RegistrarCompraRequest{
		ProveedorRUT: dto.RUT(rutProveedor),
		Items:        []dto.ItemCompraRequest{itemCompra(p.ID, m.ID, 10, 4000), itemCompra(p.ID, l.ID, 6, 4500)},
	})
	require.NoError(t, err)

	assert.True(t, resp.Total.Equal(decimalPesos(10*4000+6*4500)))
	assert.Equal(t, "76.086.428-5", resp.ProveedorRUT)
	assert.Equal(t, 12, inv.stock(p.ID, m.ID))
	assert.Equal(t, 6, inv.stock(p.ID, l.ID))

	nueva, err := inv.ObtenerLinea(context.Background(), nil, p.ID, l.ID)
	require.NoError(t, err)
	assert.True(t, nueva.PrecioUnitario.Equal(decimalPesos(4500)), "la linea nueva toma el costo de compra")
	assert.Equal(t, 5, nueva.StockCritico)

	existente, _ := inv.ObtenerLinea(context.Background(), nil, p.ID, m.ID)
	assert.True(t, existente.PrecioUnitario.Equal(decimalPesos(9990)), "el precio de venta existente no cambia")

	require.Len(t, movs.movs, 2)
	for _, mov := range movs.movs {
		assert.Equal(t, model.MovCompra, mov.Tipo)
		assert.Positive(t, mov.Cantidad)
	}
}

func TestRegistrarCompra_ProveedorInactivo(t *testing.T) {
	p := model.Producto{ID: uuid.New(), Nombre: "Polera"}
	svc := nuevaCompraSvc(newStubInventarioRepo(), &stubMovimientoRepo{}, newStubCompraRepo(), &p)

	_, err := svc.RegistrarCompra(context.Background(), rutAdmin, dto.RegistrarCompraRequest{
		ProveedorRUT: dto.RUT(11111111),
		Items:        []dto.ItemCompraRequest{itemCompra(p.ID, uuid.New(), 1, 1000)},
	})
	assert.ErrorIs(t, err, service.ErrInactivo)
}

func TestRegistrarCompra_ProductoInexistente(t *testing.T) {
	p := model.Producto{ID: uuid.New(), Nombre: "Polera"}
	m := model.Talla{ID: uuid.New(), Nombre: "M"}
	compras := newStubCompraRepo()
	svc := nuevaCompraSvc(newStubInventarioRepo(), &stubMovimientoRepo{}, compras, &p, m)

	_, err := svc.RegistrarCompra(context.Background(), rutAdmin, dto.RegistrarCompraRequest{
		ProveedorRUT: dto.RUT(rutProveedor),
		Items:        []dto.ItemCompraRequest{itemCompra(uuid.New(), m.ID, 1, 1000)},
	})
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
	assert.Empty(t, compras.compras)
}

func TestRegistrarCompra_LuegoAnularDejaElStockOriginal(t *testing.T) {
	inv, movs, compras := newStubInventarioRepo(), &stubMovimientoRepo{}, newStubCompraRepo()
	p := model.Producto{ID: uuid.New(), Nombre: "Polera"}
	m := model.Talla{ID: uuid.New(), Nombre: "M"}
	inv.set(p.ID, m.ID, 3, 9990)
	svc := nuevaCompraSvc(inv, movs, compras, &p, m)

	resp, err := svc.RegistrarCompra(context.Background(), rutAdmin, dto.RegistrarCompraRequest{
		ProveedorRUT: dto.RUT(rutProveedor),
		Items:        []dto.ItemCompraRequest{itemCompra(p.ID, m.ID, 7, 4000)},
	})
	require.NoError(t, err)
	require.Equal(t, 10, inv.stock(p.ID, m.ID))

	// The stub does not preload products; attach them as FindByIDTx would.
	id := uuid.MustParse(resp.ID)
	for i := range compras.compras[id].Detalles {
		compras.compras[id].Detalles[i].Producto = &p
	}

	rev := service.NewReversionService(newStubVentaRepo(), compras, inv, movs, 5)
	require.NoError(t, rev.AnularCompra(context.Background(), id, rutAdmin, nil))
	assert.Equal(t, 3, inv.stock(p.ID, m.ID))
}
