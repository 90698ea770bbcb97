package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StratSim/stratsim_api/internal/models"
)

func TestNormalizeCohortLinearScaling(t *testing.T) {
	results := []models.TeamResult{
		{TeamID: 1, Profit: 10000},
		{TeamID: 2, Profit: 20000},
		{TeamID: 3, Profit: 30000},
	}

	scores := NormalizeCohort(results)
	require.Len(t, scores, 3)

	assert.Equal(t, 0.0, scores[1].Profit)
	assert.Equal(t, 50.0, scores[2].Profit)
	assert.Equal(t, 100.0, scores[3].Profit)
}

func TestNormalizeCohortSingleTeam(t *testing.T) {
	scores := NormalizeCohort([]models.TeamResult{
		{TeamID: 7, Profit: 42, ROI: 1.5, MarketShare: 12, NPS: 30, Margin: 8},
	})

	s := scores[7]
	assert.Equal(t, 50.0, s.Profit)
	assert.Equal(t, 50.0, s.ROI)
	assert.Equal(t, 50.0, s.MarketShare)
	assert.Equal(t, 50.0, s.NPS)
	assert.Equal(t, 50.0, s.Margin)
}

func TestNormalizeCohortIdenticalValues(t *testing.T) {
	results := []models.TeamResult{
		{TeamID: 1, Profit: 5000},
		{TeamID: 2, Profit: 5000},
		{TeamID: 3, Profit: 5000},
	}

	scores := NormalizeCohort(results)
	for teamID := 1; teamID <= 3; teamID++ {
		assert.Equal(t, 50.0, scores[teamID].Profit)
	}
}

func TestNormalizeCohortBounds(t *testing.T) {
	results := []models.TeamResult{
		{TeamID: 1, Profit: -12000, ROI: -0.4, MarketShare: 1, NPS: -80, Margin: -3},
		{TeamID: 2, Profit: 300, ROI: 0.1, MarketShare: 9, NPS: 5, Margin: 2},
		{TeamID: 3, Profit: 91000, ROI: 2.3, MarketShare: 45, NPS: 70, Margin: 22},
	}

	for _, s := range NormalizeCohort(results) {
		for _, v := range []float64{s.Profit, s.ROI, s.MarketShare, s.NPS, s.Margin} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 100.0)
		}
	}
}

// Metrics normalize independently: a team can top one metric and bottom
// another.
func TestNormalizeCohortPerMetric(t *testing.T) {
	results := []models.TeamResult{
		{TeamID: 1, Profit: 100, NPS: 90},
		{TeamID: 2, Profit: 900, NPS: 10},
	}

	scores := NormalizeCohort(results)
	assert.Equal(t, 0.0, scores[1].Profit)
	assert.Equal(t, 100.0, scores[1].NPS)
	assert.Equal(t, 100.0, scores[2].Profit)
	assert.Equal(t, 0.0, scores[2].NPS)
}
