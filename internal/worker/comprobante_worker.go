package worker

// comprobante_worker.go
// Processes boleta jobs from QueueComprobante: renders the PDF and, when the
// client has an email, enqueues the delivery on QueueEmail.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tiendaropa/internal/infra"
	"tiendaropa/internal/model"
	"tiendaropa/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ComprobanteJobPayload is the job envelope sent to QueueComprobante.
type ComprobanteJobPayload struct {
	VentaID      string  `json:"venta_id"`
	ClienteEmail *string `json:"cliente_email,omitempty"`
}

// EmailEnqueuer is satisfied by *Dispatcher.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

type ComprobanteWorker struct {
	comprobantes service.ComprobanteService
	emails       EmailEnqueuer
	tienda       string
}

func NewComprobanteWorker(comprobantes service.ComprobanteService, emails EmailEnqueuer, tienda string) *ComprobanteWorker {
	return &ComprobanteWorker{comprobantes: comprobantes, emails: emails, tienda: tienda}
}

func (w *ComprobanteWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ComprobanteJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanent(fmt.Errorf("comprobante_worker: invalid payload: %w", err))
	}
	ventaID, err := uuid.Parse(payload.VentaID)
	if err != nil {
		return Permanent(fmt.Errorf("comprobante_worker: invalid venta_id %q", payload.VentaID))
	}

	venta, pdfPath, err := w.comprobantes.GenerarBoleta(ctx, ventaID)
	if err != nil {
		if isNoEncontrado(err) {
			return Permanent(err)
		}
		return err
	}

	if payload.ClienteEmail == nil || *payload.ClienteEmail == "" || w.emails == nil {
		return nil
	}
	job := EmailJobPayload{
		VentaID: payload.VentaID,
		ToEmail: *payload.ClienteEmail,
		Subject: fmt.Sprintf("%s - Boleta N° %d", w.tienda, venta.Folio),
		Body:    cuerpoCorreo(venta),
		PDFPath: pdfPath,
	}
	if err := w.emails.EnqueueEmail(ctx, job); err != nil {
		// boleta already emitted; the email is best effort
		log.Warn().Err(err).Str("venta_id", payload.VentaID).Msg("comprobante_worker: failed to enqueue email")
		return nil
	}
	log.Info().Str("venta_id", payload.VentaID).Msg("comprobante_worker: email job enqueued")
	return nil
}

func cuerpoCorreo(v *model.Venta) string {
	return fmt.Sprintf("Adjuntamos la boleta N° %d de tu compra.\nTotal: %s", v.Folio, infra.FormatearPesos(v.Total))
}

func isNoEncontrado(err error) bool { return errors.Is(err, service.ErrNoEncontrado) }
