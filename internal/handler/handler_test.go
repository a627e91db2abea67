package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tiendaropa/internal/dto"
	"tiendaropa/internal/handler"
	"tiendaropa/internal/middleware"
	"tiendaropa/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// ── fakes ────────────────────────────────────────────────────────────────────

type fakeReversion struct {
	err        error
	llamadas   int
	usuarioRUT int
	motivo     *string
}

func (f *fakeReversion) AnularVenta(_ context.Context, _ uuid.UUID, usuarioRUT int, motivo *string) error {
	f.llamadas++
	f.usuarioRUT, f.motivo = usuarioRUT, motivo
	return f.err
}

func (f *fakeReversion) AnularCompra(_ context.Context, _ uuid.UUID, usuarioRUT int, motivo *string) error {
	f.llamadas++
	f.usuarioRUT, f.motivo = usuarioRUT, motivo
	return f.err
}

var _ service.ReversionService = (*fakeReversion)(nil)

type fakeClientes struct {
	creados  []dto.CrearClienteRequest
	buscados []int
}

func (f *fakeClientes) Crear(_ context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	f.creados = append(f.creados, req)
	return &dto.ClienteResponse{RUT: fmt.Sprint(req.RUT.Int()), Nombre: req.Nombre}, nil
}

func (f *fakeClientes) ObtenerPorRUT(_ context.Context, r int) (*dto.ClienteResponse, error) {
	f.buscados = append(f.buscados, r)
	if r != 12345678 {
		return nil, fmt.Errorf("cliente: %w", service.ErrNoEncontrado)
	}
	return &dto.ClienteResponse{RUT: "12.345.678-5", Nombre: "Ana"}, nil
}

func (f *fakeClientes) Listar(context.Context, dto.ClienteFilter) (*dto.ClienteListResponse, error) {
	return &dto.ClienteListResponse{}, nil
}

func (f *fakeClientes) Actualizar(context.Context, int, dto.ActualizarClienteRequest) (*dto.ClienteResponse, error) {
	return &dto.ClienteResponse{}, nil
}

func (f *fakeClientes) Eliminar(context.Context, int) error { return nil }

var _ service.ClienteService = (*fakeClientes)(nil)

// ── helpers ──────────────────────────────────────────────────────────────────

func conUsuario(rut int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{RUT: rut, Rol: "administrador"})
		c.Next()
	}
}

func hacer(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func routerAnular(rev *fakeReversion) *gin.Engine {
	r := gin.New()
	r.Use(conUsuario(12345678))
	ventas := handler.NewVentasHandler(nil, rev, nil)
	compras := handler.NewComprasHandler(nil, rev)
	r.PATCH("/v1/ventas/:id/anular", ventas.AnularVenta)
	r.PATCH("/v1/compras/:id/anular", compras.AnularCompra)
	return r
}

// ── anulacion ────────────────────────────────────────────────────────────────

func TestAnularVenta_OK(t *testing.T) {
	rev := &fakeReversion{}
	w := hacer(routerAnular(rev), http.MethodPatch, "/v1/ventas/"+uuid.NewString()+"/anular", map[string]string{"motivo": "error de digitacion"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["message"])
	assert.Equal(t, 12345678, rev.usuarioRUT)
	require.NotNil(t, rev.motivo)
	assert.Equal(t, "error de digitacion", *rev.motivo)
}

func TestAnularVenta_SinCuerpo(t *testing.T) {
	rev := &fakeReversion{}
	w := hacer(routerAnular(rev), http.MethodPatch, "/v1/ventas/"+uuid.NewString()+"/anular", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, rev.motivo)
}

func TestAnularCompra_StockInsuficiente409ConDetalles(t *testing.T) {
	rev := &fakeReversion{err: &service.ReversionError{
		Code: service.CodigoStockInsuficiente,
		Detalles: []dto.DetalleConflicto{{
			ProductoID:       uuid.NewString(),
			Producto:         "Polera",
			TallaID:          uuid.NewString(),
			Talla:            "M",
			StockActual:      10,
			CantidadRevertir: 15,
			StockResultante:  -5,
		}},
	}}
	w := hacer(routerAnular(rev), http.MethodPatch, "/v1/compras/"+uuid.NewString()+"/anular", nil)

	require.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Message  string                 `json:"message"`
		Code     string                 `json:"code"`
		Detalles []dto.DetalleConflicto `json:"detalles"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "STOCK_INSUFICIENTE", body.Code)
	assert.NotEmpty(t, body.Message)
	require.Len(t, body.Detalles, 1)
	assert.Equal(t, 10, body.Detalles[0].StockActual)
	assert.Equal(t, 15, body.Detalles[0].CantidadRevertir)
	assert.Equal(t, -5, body.Detalles[0].StockResultante)
}

func TestAnularVenta_CodigosDeConflicto(t *testing.T) {
	casos := map[string]error{
		"PRODUCTO_ELIMINADO": &service.ReversionError{Code: service.CodigoProductoEliminado, Detalles: []dto.DetalleConflicto{{ProductoID: uuid.NewString()}}},
		"YA_ANULADA":         fmt.Errorf("venta: %w", service.ErrYaAnulada),
	}
	for code, err := range casos {
		w := hacer(routerAnular(&fakeReversion{err: err}), http.MethodPatch, "/v1/ventas/"+uuid.NewString()+"/anular", nil)
		require.Equal(t, http.StatusConflict, w.Code, code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, code, body["code"])
	}
}

func TestAnularVenta_NoEncontradaEIDInvalido(t *testing.T) {
	rev := &fakeReversion{err: fmt.Errorf("venta: %w", service.ErrNoEncontrado)}
	w := hacer(routerAnular(rev), http.MethodPatch, "/v1/ventas/"+uuid.NewString()+"/anular", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	rev = &fakeReversion{}
	w = hacer(routerAnular(rev), http.MethodPatch, "/v1/ventas/no-es-uuid/anular", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, rev.llamadas)
}

// ── RUT en la frontera HTTP ──────────────────────────────────────────────────

func routerClientes(f *fakeClientes) *gin.Engine {
	r := gin.New()
	h := handler.NewClientesHandler(f)
	r.POST("/v1/clientes", h.Crear)
	r.GET("/v1/clientes/:rut", h.ObtenerPorRUT)
	return r
}

func TestObtenerCliente_AceptaRUTConYSinPuntos(t *testing.T) {
	f := &fakeClientes{}
	r := routerClientes(f)
	for _, path := range []string{"/v1/clientes/12.345.678-5", "/v1/clientes/12345678-5", "/v1/clientes/123456785"} {
		w := hacer(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
	assert.Equal(t, []int{12345678, 12345678, 12345678}, f.buscados)
}

func TestObtenerCliente_RUTInvalido400(t *testing.T) {
	f := &fakeClientes{}
	r := routerClientes(f)
	for _, path := range []string{"/v1/clientes/12.345.678-9", "/v1/clientes/abc-5", "/v1/clientes/12345678"} {
		w := hacer(r, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.NotEmpty(t, body["message"])
	}
	assert.Empty(t, f.buscados)
}

func TestObtenerCliente_NoEncontrado404(t *testing.T) {
	w := hacer(routerClientes(&fakeClientes{}), http.MethodGet, "/v1/clientes/11.111.111-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCrearCliente_RUTEnCuerpo(t *testing.T) {
	f := &fakeClientes{}
	r := routerClientes(f)

	w := hacer(r, http.MethodPost, "/v1/clientes", `{"rut":"12.345.678-5","nombre":"Ana"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Bare numbers are range checked only.
	w = hacer(r, http.MethodPost, "/v1/clientes", `{"rut":76086428,"nombre":"Textil"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = hacer(r, http.MethodPost, "/v1/clientes", `{"rut":"12.345.678-9","nombre":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = hacer(r, http.MethodPost, "/v1/clientes", `{"rut":0,"nombre":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.Len(t, f.creados, 2)
	assert.Equal(t, 12345678, f.creados[0].RUT.Int())
	assert.Equal(t, 76086428, f.creados[1].RUT.Int())
}

func TestCrearCliente_ValidacionDeCampos422(t *testing.T) {
	w := hacer(routerClientes(&fakeClientes{}), http.MethodPost, "/v1/clientes", `{"rut":"12.345.678-5","nombre":"A"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["fields"], "Nombre")
}

// ── utilidad /v1/rut/validar ─────────────────────────────────────────────────

func TestValidarRUT(t *testing.T) {
	r := gin.New()
	r.GET("/v1/rut/validar", handler.ValidarRUT)

	w := hacer(r, http.MethodGet, "/v1/rut/validar?rut=123456785", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ok dto.ValidarRUTResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ok))
	assert.True(t, ok.Valido)
	assert.Equal(t, "12.345.678-5", ok.Formateado)
	assert.Equal(t, 12345678, ok.Cuerpo)
	assert.Equal(t, "5", ok.DV)

	w = hacer(r, http.MethodGet, "/v1/rut/validar?rut=12.345.678-0", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var malo dto.ValidarRUTResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &malo))
	assert.False(t, malo.Valido)
	assert.Empty(t, malo.Formateado)

	w = hacer(r, http.MethodGet, "/v1/rut/validar", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
