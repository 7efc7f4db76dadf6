package worker

// solicitud_worker.go
// Generates the solicitud-de-factura PDF sheet for a compra and files it
// into the compra's expediente. Retries with exponential backoff before
// giving up; permanently failed jobs land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pagoscompras/internal/infra"
	"pagoscompras/internal/model"
	"pagoscompras/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxJobAttempts = 3

// SolicitudJobPayload is the job envelope sent to QueueSolicitud.
type SolicitudJobPayload struct {
	CompraID string `json:"compra_id"`
}

type SolicitudWorker struct {
	compraRepo    repository.CompraRepository
	documentoRepo repository.DocumentoRepository
	storage       *infra.DocStorage
}

func NewSolicitudWorker(
	compraRepo repository.CompraRepository,
	documentoRepo repository.DocumentoRepository,
	storage *infra.DocStorage,
) *SolicitudWorker {
	return &SolicitudWorker{
		compraRepo:    compraRepo,
		documentoRepo: documentoRepo,
		storage:       storage,
	}
}

// Process handles one solicitud job:
//  1. Parse SolicitudJobPayload
//  2. Fetch the compra with its productor
//  3. Generate the PDF sheet into the expediente storage
//  4. Register the documento row (etapa solicitud_factura)
func (w *SolicitudWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload SolicitudJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("solicitud_worker: invalid payload")
		return nil // malformed jobs are not retried
	}
	compraID, err := uuid.Parse(payload.CompraID)
	if err != nil {
		log.Error().Str("compra_id", payload.CompraID).Msg("solicitud_worker: invalid compra_id")
		return nil
	}

	compra, err := w.compraRepo.FindByID(ctx, compraID)
	if err != nil {
		return fmt.Errorf("solicitud_worker: compra %s: %w", payload.CompraID, err)
	}

	var locator string
	err = withRetry(ctx, maxJobAttempts, func(attempt int) error {
		var genErr error
		locator, genErr = infra.GenerarSolicitudPDF(compra, w.storage)
		if genErr != nil {
			log.Warn().
				Err(genErr).
				Int("attempt", attempt+1).
				Str("compra_id", payload.CompraID).
				Msg("solicitud_worker: PDF attempt failed, retrying")
		}
		return genErr
	})
	if err != nil {
		return fmt.Errorf("solicitud_worker: generar PDF: %w", err)
	}

	doc := &model.DocumentoCompra{
		CompraID:    compraID,
		Etapa:       model.EtapaDocSolicitudFactura,
		Descripcion: fmt.Sprintf("Solicitud de factura compra %d", compra.NumeroCompra),
		Archivo:     locator,
	}
	if err := w.documentoRepo.Create(ctx, doc); err != nil {
		return fmt.Errorf("solicitud_worker: registrar documento: %w", err)
	}

	log.Info().
		Str("compra_id", payload.CompraID).
		Str("archivo", locator).
		Msg("solicitud_worker: solicitud generada")
	return nil
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
