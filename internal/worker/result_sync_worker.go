package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/service"
)

// ResultSyncWorker periodically imports round results from the simulation
// engine.
type ResultSyncWorker struct {
	syncService *service.ResultSyncService
	interval    time.Duration
}

// NewResultSyncWorker constructs a ResultSyncWorker.
func NewResultSyncWorker(syncService *service.ResultSyncService, interval time.Duration) *ResultSyncWorker {
	return &ResultSyncWorker{
		syncService: syncService,
		interval:    interval,
	}
}

// Start begins the periodic sync loop and listens for context cancellation.
func (w *ResultSyncWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting result sync worker")

	// Run immediately on start
	w.run(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Result sync worker stopped")
			return
		}
	}
}

func (w *ResultSyncWorker) run(ctx context.Context) {
	start := time.Now()
	if err := w.syncService.SyncPendingRounds(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to sync round results")
		return
	}
	log.Debug().Dur("duration", time.Since(start)).Msg("Result sync pass completed")
}
