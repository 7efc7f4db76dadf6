package worker

// tcsync_worker.go
// Processes exchange-rate sync jobs: both the daily cron tick and manual
// requests end up here, so concurrent triggers contend on the same Redis
// lock inside the sincronizador.

import (
	"context"
	"encoding/json"

	"pagoscompras/internal/dto"

	"github.com/rs/zerolog/log"
)

// TipoCambioSincronizador is the slice of the tipo-de-cambio service the
// worker needs. Declared here to keep the dependency pointing outward.
type TipoCambioSincronizador interface {
	Sincronizar(ctx context.Context, days int) (*dto.SyncTipoCambioResponse, error)
}

// TcSyncJobPayload is the job envelope sent to QueueTcSync.
type TcSyncJobPayload struct {
	Days int `json:"days"`
}

type TcSyncWorker struct {
	sincronizador TipoCambioSincronizador
}

func NewTcSyncWorker(sincronizador TipoCambioSincronizador) *TcSyncWorker {
	return &TcSyncWorker{sincronizador: sincronizador}
}

func (w *TcSyncWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload TcSyncJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("tcsync_worker: invalid payload")
		return nil
	}

	res, err := w.sincronizador.Sincronizar(ctx, payload.Days)
	if err != nil {
		return err
	}
	log.Info().
		Int("creados", res.Creados).
		Int("actualizados", res.Actualizados).
		Msg("tcsync_worker: sincronizacion terminada")
	return nil
}
