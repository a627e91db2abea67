package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"tiendaropa/internal/model"
	"tiendaropa/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── withRetry ────────────────────────────────────────────────────────────────

func TestWithRetry_ExitoAlSegundoIntento(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_PermanentCortaLosReintentos(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), 3, func(int) error {
		calls++
		return Permanent(errors.New("payload roto"))
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.EqualError(t, err, "payload roto")
}

func TestWithRetry_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 3, func(int) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// ── ComprobanteWorker ────────────────────────────────────────────────────────

type fakeComprobantes struct {
	venta    *model.Venta
	err      error
	enviados []string
}

func (f *fakeComprobantes) GenerarBoleta(_ context.Context, ventaID uuid.UUID) (*model.Venta, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.venta, fmt.Sprintf("/tmp/boleta_%d.pdf", f.venta.Folio), nil
}

func (f *fakeComprobantes) MarcarEnviado(_ context.Context, _ uuid.UUID, destinatario string) error {
	f.enviados = append(f.enviados, destinatario)
	return nil
}

var _ service.ComprobanteService = (*fakeComprobantes)(nil)

type fakeEmails struct {
	jobs []interface{}
}

func (f *fakeEmails) EnqueueEmail(_ context.Context, payload interface{}) error {
	f.jobs = append(f.jobs, payload)
	return nil
}

func payloadComprobante(t *testing.T, ventaID string, email *string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(ComprobanteJobPayload{VentaID: ventaID, ClienteEmail: email})
	require.NoError(t, err)
	return raw
}

func TestComprobanteWorker_EncolaCorreoConBoleta(t *testing.T) {
	venta := &model.Venta{ID: uuid.New(), Folio: 42, Total: decimal.NewFromInt(12990)}
	comps, emails := &fakeComprobantes{venta: venta}, &fakeEmails{}
	w := NewComprobanteWorker(comps, emails, "Tienda Ropa")
	email := "ana@example.cl"

	require.NoError(t, w.Process(context.Background(), payloadComprobante(t, venta.ID.String(), &email)))

	require.Len(t, emails.jobs, 1)
	job, ok := emails.jobs[0].(EmailJobPayload)
	require.True(t, ok)
	assert.Equal(t, email, job.ToEmail)
	assert.Equal(t, "/tmp/boleta_42.pdf", job.PDFPath)
	assert.Contains(t, job.Subject, "42")
	assert.Contains(t, job.Body, "$12.990")
}

func TestComprobanteWorker_SinEmailNoEncola(t *testing.T) {
	venta := &model.Venta{ID: uuid.New(), Folio: 1}
	emails := &fakeEmails{}
	w := NewComprobanteWorker(&fakeComprobantes{venta: venta}, emails, "Tienda")

	require.NoError(t, w.Process(context.Background(), payloadComprobante(t, venta.ID.String(), nil)))
	assert.Empty(t, emails.jobs)
}

func TestComprobanteWorker_ErroresPermanentes(t *testing.T) {
	w := NewComprobanteWorker(&fakeComprobantes{err: fmt.Errorf("venta: %w", service.ErrNoEncontrado)}, nil, "Tienda")

	var perm permanentError
	err := w.Process(context.Background(), json.RawMessage(`{"venta_id":"no-uuid"}`))
	assert.True(t, errors.As(err, &perm))

	err = w.Process(context.Background(), json.RawMessage(`not json`))
	assert.True(t, errors.As(err, &perm))

	err = w.Process(context.Background(), payloadComprobante(t, uuid.NewString(), nil))
	assert.True(t, errors.As(err, &perm))
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestComprobanteWorker_ErrorTransitorioSeReintenta(t *testing.T) {
	w := NewComprobanteWorker(&fakeComprobantes{err: errors.New("disco lleno")}, nil, "Tienda")
	err := w.Process(context.Background(), payloadComprobante(t, uuid.NewString(), nil))
	require.Error(t, err)
	var perm permanentError
	assert.False(t, errors.As(err, &perm))
}

// ── EmailWorker ──────────────────────────────────────────────────────────────

type fakeMailer struct {
	err    error
	to     []string
	anexos []string
}

func (f *fakeMailer) EnviarBoleta(to, _, _, pdfPath string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.anexos = append(f.anexos, pdfPath)
	return nil
}

func TestEmailWorker_EnviaYRegistraEntrega(t *testing.T) {
	mailer, comps := &fakeMailer{}, &fakeComprobantes{}
	w := NewEmailWorker(mailer, comps)
	raw, _ := json.Marshal(EmailJobPayload{VentaID: uuid.NewString(), ToEmail: "ana@example.cl", PDFPath: "/tmp/b.pdf"})

	require.NoError(t, w.Process(context.Background(), raw))
	assert.Equal(t, []string{"ana@example.cl"}, mailer.to)
	assert.Equal(t, []string{"/tmp/b.pdf"}, mailer.anexos)
	assert.Equal(t, []string{"ana@example.cl"}, comps.enviados)
}

func TestEmailWorker_FalloSMTPEsReintentable(t *testing.T) {
	w := NewEmailWorker(&fakeMailer{err: errors.New("connection refused")}, nil)
	raw, _ := json.Marshal(EmailJobPayload{ToEmail: "ana@example.cl"})

	attempts, err := runJob(context.Background(), w, Job{ID: "j1", Payload: raw})
	require.Error(t, err)
	assert.Equal(t, maxAttempts, attempts)
}

func TestRunJob_PermanentUnSoloIntento(t *testing.T) {
	w := NewEmailWorker(&fakeMailer{}, nil)
	start := time.Now()
	attempts, err := runJob(context.Background(), w, Job{ID: "j2", Payload: json.RawMessage(`[]`)})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Less(t, time.Since(start), time.Second)
}
