package worker

// email_worker.go
// Processes email jobs from QueueEmail and sends the boleta PDF via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"tiendaropa/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	VentaID string `json:"venta_id"`
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	PDFPath string `json:"pdf_path"`
}

// BoletaMailer is satisfied by *infra.Mailer.
type BoletaMailer interface {
	EnviarBoleta(to, subject, body, pdfPath string) error
}

type EmailWorker struct {
	mailer       BoletaMailer
	comprobantes service.ComprobanteService
}

func NewEmailWorker(mailer BoletaMailer, comprobantes service.ComprobanteService) *EmailWorker {
	return &EmailWorker{mailer: mailer, comprobantes: comprobantes}
}

// Process sends an email with the boleta attached and records the delivery.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Permanent(fmt.Errorf("email_worker: invalid payload: %w", err))
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("email_worker: empty to_email, skipping")
		return nil
	}

	if err := w.mailer.EnviarBoleta(payload.ToEmail, payload.Subject, payload.Body, payload.PDFPath); err != nil {
		return fmt.Errorf("email_worker: send to %s: %w", payload.ToEmail, err)
	}
	log.Info().Str("to", payload.ToEmail).Msg("email_worker: boleta sent")

	if ventaID, err := uuid.Parse(payload.VentaID); err == nil && w.comprobantes != nil {
		if err := w.comprobantes.MarcarEnviado(ctx, ventaID, payload.ToEmail); err != nil {
			log.Warn().Err(err).Str("venta_id", payload.VentaID).Msg("email_worker: could not record delivery")
		}
	}
	return nil
}
