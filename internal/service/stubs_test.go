package service_test

import (
	"context"
	"time"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func decimalPesos(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ── In-memory VentaRepository stub ───────────────────────────────────────────

type stubVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	folio  int64
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	cloned := *v
	r.ventas[v.ID] = &cloned
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *v
	return &cloned, nil
}

func (r *stubVentaRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Venta, error) {
	return r.FindByID(ctx, id)
}

func (r *stubVentaRepo) MarcarAnulada(_ context.Context, _ *gorm.DB, id uuid.UUID, motivo *string) error {
	v, ok := r.ventas[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	v.Estado = model.EstadoAnulada
	v.MotivoAnulacion = motivo
	v.AnuladaAt = &now
	return nil
}

func (r *stubVentaRepo) NextFolio(_ context.Context, _ *gorm.DB) (int64, error) {
	r.folio++
	return r.folio, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// ── In-memory CompraRepository stub ──────────────────────────────────────────

type stubCompraRepo struct {
	compras            map[uuid.UUID]*model.Compra
	detallesEliminados int
}

func newStubCompraRepo() *stubCompraRepo {
	return &stubCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *stubCompraRepo) DB() *gorm.DB { return nil }

func (r *stubCompraRepo) Create(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cloned := *c
	r.compras[c.ID] = &cloned
	return nil
}

func (r *stubCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubCompraRepo) FindByIDTx(ctx context.Context, _ *gorm.DB, id uuid.UUID) (*model.Compra, error) {
	return r.FindByID(ctx, id)
}

func (r *stubCompraRepo) MarcarAnulada(_ context.Context, _ *gorm.DB, id uuid.UUID, motivo *string) error {
	c, ok := r.compras[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	c.Estado = model.EstadoAnulada
	c.MotivoAnulacion = motivo
	c.AnuladaAt = &now
	return nil
}

func (r *stubCompraRepo) EliminarDetalles(_ context.Context, _ *gorm.DB, compraID uuid.UUID) error {
	if c, ok := r.compras[compraID]; ok {
		r.detallesEliminados += len(c.Detalles)
		c.Detalles = nil
	}
	return nil
}

func (r *stubCompraRepo) List(_ context.Context, _ dto.CompraFilter) ([]model.Compra, int64, error) {
	var out []model.Compra
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

var _ repository.CompraRepository = (*stubCompraRepo)(nil)

// ── In-memory InventarioRepository stub ──────────────────────────────────────

type claveInv struct{ producto, talla uuid.UUID }

type stubInventarioRepo struct {
	lineas     map[claveInv]*model.Inventario
	escrituras int
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{lineas: make(map[claveInv]*model.Inventario)}
}

func (r *stubInventarioRepo) DB() *gorm.DB { return nil }

func (r *stubInventarioRepo) set(productoID, tallaID uuid.UUID, stock int, precio int64) {
	r.lineas[claveInv{productoID, tallaID}] = &model.Inventario{
		ProductoID:     productoID,
		TallaID:        tallaID,
		PrecioUnitario: decimalPesos(precio),
		StockActual:    stock,
		StockCritico:   5,
	}
}

func (r *stubInventarioRepo) stock(productoID, tallaID uuid.UUID) int {
	inv, ok := r.lineas[claveInv{productoID, tallaID}]
	if !ok {
		return -1
	}
	return inv.StockActual
}

func (r *stubInventarioRepo) ObtenerLinea(_ context.Context, _ *gorm.DB, productoID, tallaID uuid.UUID) (*model.Inventario, error) {
	inv, ok := r.lineas[claveInv{productoID, tallaID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *inv
	return &cloned, nil
}

func (r *stubInventarioRepo) AplicarDelta(_ context.Context, _ *gorm.DB, productoID, tallaID uuid.UUID, delta int) (*model.Inventario, error) {
	inv, ok := r.lineas[claveInv{productoID, tallaID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if inv.StockActual+delta < 0 {
		return nil, repository.ErrStockInsuficiente
	}
	inv.StockActual += delta
	r.escrituras++
	cloned := *inv
	return &cloned, nil
}

func (r *stubInventarioRepo) Crear(_ context.Context, _ *gorm.DB, inv *model.Inventario) error {
	k := claveInv{inv.ProductoID, inv.TallaID}
	if _, ok := r.lineas[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	cloned := *inv
	r.lineas[k] = &cloned
	r.escrituras++
	return nil
}

func (r *stubInventarioRepo) Upsert(_ context.Context, _ *gorm.DB, inv *model.Inventario) error {
	k := claveInv{inv.ProductoID, inv.TallaID}
	if actual, ok := r.lineas[k]; ok {
		actual.PrecioUnitario = inv.PrecioUnitario
		actual.StockCritico = inv.StockCritico
		*inv = *actual
	} else {
		cloned := *inv
		r.lineas[k] = &cloned
	}
	r.escrituras++
	return nil
}

func (r *stubInventarioRepo) List(_ context.Context, _ dto.InventarioFilter) ([]model.Inventario, int64, error) {
	var out []model.Inventario
	for _, inv := range r.lineas {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (r *stubInventarioRepo) ListCriticos(_ context.Context) ([]model.Inventario, error) {
	var out []model.Inventario
	for _, inv := range r.lineas {
		if inv.EnAlerta() {
			out = append(out, *inv)
		}
	}
	return out, nil
}

var _ repository.InventarioRepository = (*stubInventarioRepo)(nil)

// ── In-memory MovimientoStockRepository stub ─────────────────────────────────

type stubMovimientoRepo struct {
	movs []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ context.Context, _ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ dto.MovimientoFilter) ([]model.MovimientoStock, int64, error) {
	return r.movs, int64(len(r.movs)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── In-memory ClienteRepository stub ─────────────────────────────────────────

type stubClienteRepo struct {
	clientes  map[int]*model.Cliente
	conVentas map[int]bool
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[int]*model.Cliente), conVentas: make(map[int]bool)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if _, ok := r.clientes[c.RUT]; ok {
		return gorm.ErrDuplicatedKey
	}
	cloned := *c
	r.clientes[c.RUT] = &cloned
	return nil
}

func (r *stubClienteRepo) FindByRUT(_ context.Context, rut int) (*model.Cliente, error) {
	c, ok := r.clientes[rut]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (r *stubClienteRepo) List(_ context.Context, _ dto.ClienteFilter) ([]model.Cliente, int64, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	cloned := *c
	r.clientes[c.RUT] = &cloned
	return nil
}

func (r *stubClienteRepo) Delete(_ context.Context, rut int) error {
	delete(r.clientes, rut)
	return nil
}

func (r *stubClienteRepo) TieneVentas(_ context.Context, rut int) (bool, error) {
	return r.conVentas[rut], nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// ── In-memory ProveedorRepository stub ───────────────────────────────────────

type stubProveedorRepo struct {
	proveedores map[int]*model.Proveedor
}

func newStubProveedorRepo(ps ...model.Proveedor) *stubProveedorRepo {
	r := &stubProveedorRepo{proveedores: make(map[int]*model.Proveedor)}
	for i := range ps {
		p := ps[i]
		r.proveedores[p.RUT] = &p
	}
	return r
}

func (r *stubProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	cloned := *p
	r.proveedores[p.RUT] = &cloned
	return nil
}

func (r *stubProveedorRepo) FindByRUT(_ context.Context, rut int) (*model.Proveedor, error) {
	p, ok := r.proveedores[rut]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProveedorRepo) List(_ context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if p.Activo || incluirInactivos {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	cloned := *p
	r.proveedores[p.RUT] = &cloned
	return nil
}

func (r *stubProveedorRepo) SetActivo(_ context.Context, rut int, activo bool) error {
	p, ok := r.proveedores[rut]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = activo
	return nil
}

var _ repository.ProveedorRepository = (*stubProveedorRepo)(nil)

// ── In-memory ProductoRepository / TallaRepository stubs ─────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo(ps ...model.Producto) *stubProductoRepo {
	r := &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
	for i := range ps {
		p := ps[i]
		r.productos[p.ID] = &p
	}
	return r
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cloned := *p
	r.productos[p.ID] = &cloned
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	cloned := *p
	r.productos[p.ID] = &cloned
	return nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.productos[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.productos, id)
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

type stubTallaRepo struct {
	tallas map[uuid.UUID]*model.Talla
}

func newStubTallaRepo(ts ...model.Talla) *stubTallaRepo {
	r := &stubTallaRepo{tallas: make(map[uuid.UUID]*model.Talla)}
	for i := range ts {
		t := ts[i]
		r.tallas[t.ID] = &t
	}
	return r
}

func (r *stubTallaRepo) Crear(_ context.Context, t *model.Talla) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	cloned := *t
	r.tallas[t.ID] = &cloned
	return nil
}

func (r *stubTallaRepo) Listar(_ context.Context) ([]model.Talla, error) {
	var out []model.Talla
	for _, t := range r.tallas {
		out = append(out, *t)
	}
	return out, nil
}

func (r *stubTallaRepo) ObtenerPorID(_ context.Context, id uuid.UUID) (*model.Talla, error) {
	t, ok := r.tallas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *t
	return &cloned, nil
}

func (r *stubTallaRepo) EnUso(_ context.Context, _ uuid.UUID) (bool, error) { return false, nil }

func (r *stubTallaRepo) Eliminar(_ context.Context, id uuid.UUID) error {
	delete(r.tallas, id)
	return nil
}

var _ repository.TallaRepository = (*stubTallaRepo)(nil)

// ── In-memory UsuarioRepository stub ─────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[int]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[int]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.RUT]; ok {
		return gorm.ErrDuplicatedKey
	}
	cloned := *u
	r.usuarios[u.RUT] = &cloned
	return nil
}

func (r *stubUsuarioRepo) FindByRUT(_ context.Context, rut int) (*model.Usuario, error) {
	u, ok := r.usuarios[rut]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cloned := *u
	return &cloned, nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email != nil && *u.Email == email {
			cloned := *u
			return &cloned, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo || incluirInactivos {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	cloned := *u
	r.usuarios[u.RUT] = &cloned
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, rut int, activo bool) error {
	u, ok := r.usuarios[rut]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Activo = activo
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// ── Dispatcher spy ───────────────────────────────────────────────────────────

type spyDispatcher struct {
	payloads []interface{}
}

func (d *spyDispatcher) EnqueueComprobante(_ context.Context, payload interface{}) error {
	d.payloads = append(d.payloads, payload)
	return nil
}
