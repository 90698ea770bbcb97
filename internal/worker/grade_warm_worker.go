package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// GradeWarmWorker periodically recomputes cohort grades for completed rounds
// so instructor dashboards hit a warm cache.
type GradeWarmWorker struct {
	gradingService *service.GradingService
	roundRepo      *repository.RoundRepository
	interval       time.Duration
}

// NewGradeWarmWorker constructs a GradeWarmWorker.
func NewGradeWarmWorker(gradingService *service.GradingService, roundRepo *repository.RoundRepository, interval time.Duration) *GradeWarmWorker {
	return &GradeWarmWorker{
		gradingService: gradingService,
		roundRepo:      roundRepo,
		interval:       interval,
	}
}

// Start begins the periodic warm loop and listens for context cancellation.
func (w *GradeWarmWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting grade warm worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Grade warm worker stopped")
			return
		}
	}
}

func (w *GradeWarmWorker) run(ctx context.Context) {
	rounds, err := w.roundRepo.GetCompleted()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list completed rounds")
		return
	}

	warmed := 0
	for i := range rounds {
		_, err := w.gradingService.RoundGrades(ctx, &rounds[i])
		switch err {
		case nil:
			warmed++
		case utils.ErrRoundNotGradable, utils.ErrResultsNotReady:
			// Practice rounds and rounds without imported results are skipped.
		default:
			log.Error().Err(err).Int("round_id", rounds[i].ID).Msg("Failed to warm round grades")
		}
	}
	log.Debug().Int("warmed", warmed).Msg("Grade warm pass completed")
}
