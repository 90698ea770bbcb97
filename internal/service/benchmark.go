package service

import (
	"math"

	"github.com/StratSim/stratsim_api/internal/models"
)

// degenerateScore is the defined tie-break when a metric has no spread in
// the cohort (single team, or all teams equal).
const degenerateScore = 50.0

// NormalizeCohort computes benchmark-normalized 0-100 scores for every team
// in the cohort snapshot: min/max scaling per metric, clamped. It is pure
// and stateless; callers must not pass an empty cohort.
func NormalizeCohort(results []models.TeamResult) map[int]models.MetricScores {
	scores := make(map[int]models.MetricScores, len(results))

	profit := normalizeMetric(results, func(r models.TeamResult) float64 { return r.Profit })
	roi := normalizeMetric(results, func(r models.TeamResult) float64 { return r.ROI })
	share := normalizeMetric(results, func(r models.TeamResult) float64 { return r.MarketShare })
	nps := normalizeMetric(results, func(r models.TeamResult) float64 { return r.NPS })
	margin := normalizeMetric(results, func(r models.TeamResult) float64 { return r.Margin })

	for _, r := range results {
		scores[r.TeamID] = models.MetricScores{
			Profit:      profit[r.TeamID],
			ROI:         roi[r.TeamID],
			MarketShare: share[r.TeamID],
			NPS:         nps[r.TeamID],
			Margin:      margin[r.TeamID],
		}
	}
	return scores
}

// normalizeMetric scales one metric across the cohort. max == min yields the
// tie-break score for every team.
func normalizeMetric(results []models.TeamResult, value func(models.TeamResult) float64) map[int]float64 {
	out := make(map[int]float64, len(results))
	if len(results) == 0 {
		return out
	}

	min, max := value(results[0]), value(results[0])
	for _, r := range results[1:] {
		v := value(r)
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	for _, r := range results {
		if max == min {
			out[r.TeamID] = degenerateScore
			continue
		}
		normalized := (value(r) - min) / (max - min) * 100
		out[r.TeamID] = math.Max(0, math.Min(100, normalized))
	}
	return out
}
