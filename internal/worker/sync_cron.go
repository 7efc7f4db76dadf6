package worker

// sync_cron.go
// Background goroutine that enqueues a daily exchange-rate sync job.
// Enqueuing (instead of calling the service directly) funnels the cron
// through the same queue, retry and DLQ path as manual syncs.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const syncTickInterval = 6 * time.Hour

// StartTcSyncCron launches a goroutine that enqueues a tc_sync job once per
// tick. The Redis lock in the sincronizador makes overlapping ticks a no-op.
func StartTcSyncCron(ctx context.Context, dispatcher *Dispatcher, days int) {
	go func() {
		ticker := time.NewTicker(syncTickInterval)
		defer ticker.Stop()

		log.Info().Msg("tc_sync_cron: started")

		// primer disparo al arranque para no esperar el primer tick
		enqueueSync(ctx, dispatcher, days)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("tc_sync_cron: shutting down")
				return
			case <-ticker.C:
				enqueueSync(ctx, dispatcher, days)
			}
		}
	}()
}

func enqueueSync(ctx context.Context, dispatcher *Dispatcher, days int) {
	if err := dispatcher.EnqueueTcSync(ctx, TcSyncJobPayload{Days: days}); err != nil {
		log.Error().Err(err).Msg("tc_sync_cron: failed to enqueue sync job")
	}
}
