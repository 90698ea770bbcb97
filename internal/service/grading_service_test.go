package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StratSim/stratsim_api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestWeightedScoreWithAlignment(t *testing.T) {
	m := models.MetricScores{Profit: 100, ROI: 100, MarketShare: 100, NPS: 100, Margin: 100}

	// Weight conservation: perfect scores everywhere yield exactly 100.
	assert.Equal(t, 100, weightedScore(m, floatPtr(100)))
	assert.Equal(t, 90, weightedScore(m, floatPtr(0)))
}

func TestWeightedScoreWithoutAlignment(t *testing.T) {
	m := models.MetricScores{Profit: 100, ROI: 100, MarketShare: 100, NPS: 100, Margin: 100}

	// Redistributed weights still sum to 1.0.
	assert.Equal(t, 100, weightedScore(m, nil))

	zero := models.MetricScores{}
	assert.Equal(t, 0, weightedScore(zero, nil))
}

// Four metrics at 80 and margin at 60, no alignment score. The redistributed
// weights are 0.27, 0.22, 0.17, 0.17, 0.17:
// 80*0.27 + 80*0.22 + 80*0.17 + 80*0.17 + 60*0.17 = 76.6, rounded to 77.
func TestWeightedScoreRedistribution(t *testing.T) {
	m := models.MetricScores{Profit: 80, ROI: 80, MarketShare: 80, NPS: 80, Margin: 60}
	assert.Equal(t, 77, weightedScore(m, nil))
}

func TestWeightedScoreAlignmentEntersRaw(t *testing.T) {
	m := models.MetricScores{Profit: 50, ROI: 50, MarketShare: 50, NPS: 50, Margin: 50}

	// 50*0.90 + 80*0.10 = 53
	assert.Equal(t, 53, weightedScore(m, floatPtr(80)))
	// Without alignment everything sits at the midpoint.
	assert.Equal(t, 50, weightedScore(m, nil))
}

func TestComputeRoundGrades(t *testing.T) {
	round := &models.Round{ID: 10, Number: 2, Status: models.RoundCompleted}
	results := []models.TeamResult{
		{TeamID: 3, RoundID: 10, Profit: 30000, ROI: 2, MarketShare: 40, NPS: 60, Margin: 20, AlignmentScore: floatPtr(90)},
		{TeamID: 1, RoundID: 10, Profit: 10000, ROI: 1, MarketShare: 20, NPS: 20, Margin: 10},
		{TeamID: 2, RoundID: 10, Profit: 20000, ROI: 1.5, MarketShare: 30, NPS: 40, Margin: 15},
	}

	grades := ComputeRoundGrades(round, results)
	require.Len(t, grades, 3)

	// Sorted by team id.
	assert.Equal(t, 1, grades[0].TeamID)
	assert.Equal(t, 2, grades[1].TeamID)
	assert.Equal(t, 3, grades[2].TeamID)

	// Team 1 bottoms every metric and has no alignment score.
	assert.Equal(t, 0, grades[0].Score)
	assert.Nil(t, grades[0].AlignmentScore)

	// Team 3 tops every metric: 100*0.90 + 90*0.10 = 99.
	assert.Equal(t, 99, grades[2].Score)

	// Team 2 sits mid-cohort: 50 on all five, no alignment.
	assert.Equal(t, 50, grades[1].Score)

	for _, g := range grades {
		assert.Equal(t, 10, g.RoundID)
		assert.Equal(t, 2, g.RoundNumber)
	}
}

func TestFinalScore(t *testing.T) {
	assert.Equal(t, 0, FinalScore(nil))

	grades := []models.RoundGrade{{Score: 70}, {Score: 80}}
	assert.Equal(t, 75, FinalScore(grades))

	// 70 + 80 + 75 = 225, mean 75.
	grades = append(grades, models.RoundGrade{Score: 75})
	assert.Equal(t, 75, FinalScore(grades))

	// Rounds to nearest: (70+81)/2 = 75.5 -> 76.
	assert.Equal(t, 76, FinalScore([]models.RoundGrade{{Score: 70}, {Score: 81}}))
}

func TestRoundGradableGuard(t *testing.T) {
	assert.False(t, (&models.Round{Number: 1, Status: models.RoundCompleted}).Gradable())
	assert.False(t, (&models.Round{Number: 2, Status: models.RoundActive}).Gradable())
	assert.True(t, (&models.Round{Number: 2, Status: models.RoundCompleted}).Gradable())
}
