package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StratSim/stratsim_api/internal/models"
)

func completeToolSet() *models.StrategicToolSet {
	return &models.StrategicToolSet{
		SWOT: models.SWOTAnalysis{Strengths: []string{"strong brand"}},
		Porter: models.PorterAnalysis{
			Rivalry: models.ForceAssessment{Score: 7, Notes: "intense price competition"},
		},
		BCG: models.BCGMatrix{
			{ProductID: "alpha", Quadrant: models.QuadrantStar},
		},
		PESTEL: models.PESTELAnalysis{Economic: []string{"rising rates"}},
	}
}

func TestEvaluateCompletionNilToolSet(t *testing.T) {
	c := EvaluateCompletion(nil)
	assert.False(t, c.AllComplete)
	assert.False(t, c.SWOT)
	assert.False(t, c.Porter)
	assert.False(t, c.BCG)
	assert.False(t, c.PESTEL)
}

func TestEvaluateCompletionAllComplete(t *testing.T) {
	c := EvaluateCompletion(completeToolSet())

	assert.True(t, c.SWOT)
	assert.True(t, c.Porter)
	assert.True(t, c.BCG)
	assert.True(t, c.PESTEL)
	assert.True(t, c.AllComplete)
}

func TestEvaluateCompletionSWOTAnyList(t *testing.T) {
	tools := &models.StrategicToolSet{
		SWOT: models.SWOTAnalysis{Threats: []string{"new entrant"}},
	}
	c := EvaluateCompletion(tools)
	assert.True(t, c.SWOT)
	assert.False(t, c.AllComplete)
}

// Porter scores alone are not enough; at least one note must carry text.
func TestEvaluateCompletionPorterScoresOnly(t *testing.T) {
	tools := completeToolSet()
	tools.Porter = models.PorterAnalysis{
		NewEntrants:   models.ForceAssessment{Score: 5},
		SupplierPower: models.ForceAssessment{Score: 8, Notes: "   "},
		BuyerPower:    models.ForceAssessment{Score: 3},
		Substitutes:   models.ForceAssessment{Score: 6},
		Rivalry:       models.ForceAssessment{Score: 9},
	}

	c := EvaluateCompletion(tools)
	assert.False(t, c.Porter)
	assert.False(t, c.AllComplete)
}

func TestEvaluateCompletionMissingBCG(t *testing.T) {
	tools := completeToolSet()
	tools.BCG = nil

	c := EvaluateCompletion(tools)
	assert.False(t, c.BCG)
	assert.False(t, c.AllComplete)
}
