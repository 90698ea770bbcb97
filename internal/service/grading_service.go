package service

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/cache"
	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// Fixed grade weights. They sum to 1.0; when a team has no alignment score
// its 0.10 weight is redistributed equally across the five metric terms.
const (
	weightProfit      = 0.25
	weightROI         = 0.20
	weightMarketShare = 0.15
	weightNPS         = 0.15
	weightMargin      = 0.15
	weightAlignment   = 0.10
)

// weightedScore combines normalized metric scores into one 0-100 round
// score. The alignment score is already on the 0-100 scale and enters raw,
// never benchmark-normalized.
func weightedScore(m models.MetricScores, alignment *float64) int {
	wProfit, wROI, wShare, wNPS, wMargin := weightProfit, weightROI, weightMarketShare, weightNPS, weightMargin

	score := 0.0
	if alignment != nil {
		score = *alignment * weightAlignment
	} else {
		spread := weightAlignment / 5
		wProfit += spread
		wROI += spread
		wShare += spread
		wNPS += spread
		wMargin += spread
	}

	score += m.Profit*wProfit + m.ROI*wROI + m.MarketShare*wShare + m.NPS*wNPS + m.Margin*wMargin
	return int(math.Round(score))
}

// ComputeRoundGrades grades the whole cohort of a round from its result
// snapshot. Pure; callers must not pass an empty cohort.
func ComputeRoundGrades(round *models.Round, results []models.TeamResult) []models.RoundGrade {
	normalized := NormalizeCohort(results)

	grades := make([]models.RoundGrade, 0, len(results))
	for _, r := range results {
		metrics := normalized[r.TeamID]
		grades = append(grades, models.RoundGrade{
			TeamID:         r.TeamID,
			RoundID:        round.ID,
			RoundNumber:    round.Number,
			Score:          weightedScore(metrics, r.AlignmentScore),
			Metrics:        metrics,
			AlignmentScore: r.AlignmentScore,
		})
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].TeamID < grades[j].TeamID })
	return grades
}

// GradingService computes cohort-relative grades for completed rounds and
// final grades across a class, with a Redis cache in front of the cohort
// computation.
type GradingService struct {
	resultRepo *repository.ResultRepository
	roundRepo  *repository.RoundRepository
	teamRepo   *repository.TeamRepository
	gradeCache *cache.GradeCache
}

// NewGradingService constructs a GradingService.
func NewGradingService(
	resultRepo *repository.ResultRepository,
	roundRepo *repository.RoundRepository,
	teamRepo *repository.TeamRepository,
	gradeCache *cache.GradeCache,
) *GradingService {
	return &GradingService{
		resultRepo: resultRepo,
		roundRepo:  roundRepo,
		teamRepo:   teamRepo,
		gradeCache: gradeCache,
	}
}

// RoundGrades returns the graded cohort for a round, computing and caching
// on a miss. Results must be frozen before grading, which the gradable
// precondition (completed, number > 1) enforces.
func (s *GradingService) RoundGrades(ctx context.Context, round *models.Round) ([]models.RoundGrade, error) {
	if !round.Gradable() {
		return nil, utils.ErrRoundNotGradable
	}

	if cached, err := s.gradeCache.Get(ctx, round.ID); err == nil {
		return cached, nil
	}

	results, err := s.resultRepo.GetByRound(round.ID)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, utils.ErrResultsNotReady
	}

	grades := ComputeRoundGrades(round, results)
	if err := s.gradeCache.Set(ctx, round.ID, grades); err != nil {
		log.Warn().Err(err).Int("round_id", round.ID).Msg("Failed to cache round grades")
	}
	return grades, nil
}

// TeamRoundGrade returns one team's grade within its cohort for a round.
func (s *GradingService) TeamRoundGrade(ctx context.Context, round *models.Round, teamID int) (*models.RoundGrade, error) {
	grades, err := s.RoundGrades(ctx, round)
	if err != nil {
		return nil, err
	}
	for i := range grades {
		if grades[i].TeamID == teamID {
			return &grades[i], nil
		}
	}
	return nil, utils.ErrResultsNotReady
}

// FinalGrades computes the final grade of every team in a class: the mean of
// per-round scores across gradable rounds, rounded; 0 when a team has no
// gradable round. Rounds whose results have not been imported yet are
// skipped rather than failing the whole report.
func (s *GradingService) FinalGrades(ctx context.Context, classID int) ([]models.FinalGrade, error) {
	teams, err := s.teamRepo.GetByClass(classID)
	if err != nil {
		return nil, err
	}
	rounds, err := s.roundRepo.GetGradableByClass(classID)
	if err != nil {
		return nil, err
	}

	perTeam := make(map[int][]models.RoundGrade, len(teams))
	for i := range rounds {
		grades, err := s.RoundGrades(ctx, &rounds[i])
		if err == utils.ErrResultsNotReady {
			log.Warn().Int("round_id", rounds[i].ID).Msg("Skipping round without imported results")
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, g := range grades {
			perTeam[g.TeamID] = append(perTeam[g.TeamID], g)
		}
	}

	finals := make([]models.FinalGrade, 0, len(teams))
	for _, team := range teams {
		finals = append(finals, models.FinalGrade{
			TeamID:   team.ID,
			TeamName: team.Name,
			Score:    FinalScore(perTeam[team.ID]),
			Rounds:   perTeam[team.ID],
		})
	}
	return finals, nil
}

// FinalScore averages per-round scores, rounded to the nearest integer.
// No gradable rounds means 0, a defined fallback.
func FinalScore(grades []models.RoundGrade) int {
	if len(grades) == 0 {
		return 0
	}
	sum := 0
	for _, g := range grades {
		sum += g.Score
	}
	return int(math.Round(float64(sum) / float64(len(grades))))
}
