package service

import (
	"context"
	"time"

	"tiendaropa/internal/infra"
	"tiendaropa/internal/model"
	"tiendaropa/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ComprobantePendiente = "pendiente"
	ComprobanteEmitido   = "emitido"
	ComprobanteError     = "error"
)

// ComprobanteService renders and tracks the boleta PDF of a sale.
type ComprobanteService interface {
	// GenerarBoleta (re)renders the boleta and returns the sale together
	// with the absolute PDF path.
	GenerarBoleta(ctx context.Context, ventaID uuid.UUID) (*model.Venta, string, error)
	MarcarEnviado(ctx context.Context, ventaID uuid.UUID, destinatario string) error
}

type comprobanteService struct {
	repo        repository.ComprobanteRepository
	ventas      repository.VentaRepository
	tienda      string
	storagePath string
}

func NewComprobanteService(repo repository.ComprobanteRepository, ventas repository.VentaRepository, tienda, storagePath string) ComprobanteService {
	return &comprobanteService{repo: repo, ventas: ventas, tienda: tienda, storagePath: storagePath}
}

func (s *comprobanteService) GenerarBoleta(ctx context.Context, ventaID uuid.UUID) (*model.Venta, string, error) {
	venta, err := s.ventas.FindByID(ctx, ventaID)
	if err != nil {
		return nil, "", noEncontrado(err, "venta")
	}
	comp, err := s.repo.ObtenerOCrear(ctx, ventaID)
	if err != nil {
		return nil, "", err
	}

	comp.Intentos++
	path, pdfErr := infra.GenerarBoletaPDF(venta, s.tienda, s.storagePath)
	if pdfErr != nil {
		msg := pdfErr.Error()
		comp.Estado = ComprobanteError
		comp.LastError = &msg
		if err := s.repo.Update(ctx, comp); err != nil {
			log.Error().Err(err).Str("venta_id", ventaID.String()).Msg("comprobante: update failed")
		}
		return nil, "", pdfErr
	}

	nombre := infra.BoletaFileName(venta.Folio)
	comp.Estado = ComprobanteEmitido
	comp.PDFPath = &nombre
	comp.LastError = nil
	if err := s.repo.Update(ctx, comp); err != nil {
		return nil, "", err
	}
	log.Info().Int64("folio", venta.Folio).Str("pdf", path).Msg("comprobante: boleta generada")
	return venta, path, nil
}

func (s *comprobanteService) MarcarEnviado(ctx context.Context, ventaID uuid.UUID, destinatario string) error {
	comp, err := s.repo.FindByVentaID(ctx, ventaID)
	if err != nil {
		return noEncontrado(err, "comprobante")
	}
	now := time.Now()
	comp.EnviadoA = &destinatario
	comp.EnviadoAt = &now
	return s.repo.Update(ctx, comp)
}
