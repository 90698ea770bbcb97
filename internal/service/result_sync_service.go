package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/cache"
	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/sse"
	"github.com/StratSim/stratsim_api/pkg/simengine"
)

// ResultSyncService imports round results from the simulation engine into
// the local result store. Rounds are picked up once completed and skipped
// while the engine is still processing them.
type ResultSyncService struct {
	engine     *simengine.Client
	roundRepo  *repository.RoundRepository
	resultRepo *repository.ResultRepository
	gradeCache *cache.GradeCache
	notifier   sse.SubmissionNotifier
}

// NewResultSyncService constructs a ResultSyncService.
func NewResultSyncService(
	engine *simengine.Client,
	roundRepo *repository.RoundRepository,
	resultRepo *repository.ResultRepository,
	gradeCache *cache.GradeCache,
	notifier sse.SubmissionNotifier,
) *ResultSyncService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &ResultSyncService{
		engine:     engine,
		roundRepo:  roundRepo,
		resultRepo: resultRepo,
		gradeCache: gradeCache,
		notifier:   notifier,
	}
}

// SyncPendingRounds imports results for every completed round that has none
// yet. One failing round does not block the others.
func (s *ResultSyncService) SyncPendingRounds(ctx context.Context) error {
	rounds, err := s.roundRepo.GetCompletedWithoutResults()
	if err != nil {
		return err
	}

	for i := range rounds {
		if err := s.syncRound(ctx, &rounds[i]); err != nil {
			log.Error().Err(err).Int("round_id", rounds[i].ID).Msg("Failed to sync round results")
		}
	}
	return nil
}

func (s *ResultSyncService) syncRound(ctx context.Context, round *models.Round) error {
	resp, err := s.engine.FetchRoundResults(ctx, round.ID)
	if err != nil {
		return err
	}
	if resp.Status == simengine.StatusProcessing || len(resp.Results) == 0 {
		log.Debug().Int("round_id", round.ID).Msg("Engine still processing round, will retry")
		return nil
	}

	for _, entry := range resp.Results {
		res := &models.TeamResult{
			TeamID:         entry.TeamID,
			RoundID:        round.ID,
			Revenue:        entry.Revenue,
			Profit:         entry.Profit,
			ROI:            entry.ROI,
			MarketShare:    entry.MarketShare,
			NPS:            entry.NPS,
			Margin:         entry.Margin,
			AlignmentScore: entry.AlignmentScore,
		}
		if err := s.resultRepo.Upsert(res); err != nil {
			return err
		}
	}

	// Imported results supersede any previously computed grades.
	if err := s.gradeCache.Invalidate(ctx, round.ID); err != nil {
		log.Warn().Err(err).Int("round_id", round.ID).Msg("Failed to invalidate grade cache")
	}

	log.Info().
		Int("round_id", round.ID).
		Int("teams", len(resp.Results)).
		Msg("Round results imported")
	s.notifier.NotifyResultsImported(round.ID)
	return nil
}
