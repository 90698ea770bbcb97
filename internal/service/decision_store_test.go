package service

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/utils"
)

var testMedia = map[string]bool{"tv": true, "social": true, "radio": true}

func submittedDecision(teamID, roundID int, productID string) models.ProductDecision {
	d := models.DefaultDecision(teamID, roundID, productID)
	now := time.Now()
	d.SubmittedAt = &now
	return *d
}

func TestHydrateCreatesDefaults(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha", "beta"}, nil, testMedia)

	require.True(t, store.Hydrated(1, 10))

	all := store.All(1, 10)
	require.Len(t, all, 2)
	for _, d := range all {
		assert.Equal(t, models.QualityMedium, d.Quality)
		assert.Equal(t, models.PriceCompetitive, d.PriceStrategy)
		assert.False(t, d.Submitted())
	}
}

func TestHydrateOverlaysPersistedRecords(t *testing.T) {
	store := NewDecisionStore()
	rec := *models.DefaultDecision(1, 10, "alpha")
	rec.Quality = models.QualityPremium
	rec.UnitPrice = 149.90

	store.Hydrate(1, 10, []string{"alpha", "beta"}, []models.ProductDecision{rec}, testMedia)

	alpha := store.Get(1, 10, "alpha")
	assert.Equal(t, models.QualityPremium, alpha.Quality)
	assert.Equal(t, 149.90, alpha.UnitPrice)

	beta := store.Get(1, 10, "beta")
	assert.Equal(t, models.QualityMedium, beta.Quality)
}

// Legacy media identifiers are dropped silently during hydration, along
// with budget keys for media outside the surviving mix.
func TestHydrateDropsUnknownMedia(t *testing.T) {
	store := NewDecisionStore()
	rec := *models.DefaultDecision(1, 10, "alpha")
	rec.PromotionMix = pq.StringArray{"tv", "print", "social"}
	rec.Budgets = models.BudgetMap{"tv": 1000, "print": 500, "radio": 200}

	store.Hydrate(1, 10, []string{"alpha"}, []models.ProductDecision{rec}, testMedia)

	alpha := store.Get(1, 10, "alpha")
	assert.ElementsMatch(t, []string{"tv", "social"}, []string(alpha.PromotionMix))
	assert.Equal(t, models.BudgetMap{"tv": 1000}, alpha.Budgets)
}

func TestUpdateMergesPartialFields(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha"}, nil, testMedia)

	price := 99.0
	quality := models.QualityPremium
	updated, err := store.Update(1, 10, "alpha", models.DecisionFields{
		Quality:   &quality,
		UnitPrice: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, models.QualityPremium, updated.Quality)
	assert.Equal(t, 99.0, updated.UnitPrice)
	// Untouched fields keep their defaults.
	assert.Equal(t, models.FeaturesIntermediate, updated.Features)
	assert.Equal(t, models.CoverageLocal, updated.Coverage)
}

func TestUpdateSubmittedRecordFails(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha"}, []models.ProductDecision{submittedDecision(1, 10, "alpha")}, testMedia)

	price := 50.0
	_, err := store.Update(1, 10, "alpha", models.DecisionFields{UnitPrice: &price})
	assert.ErrorIs(t, err, utils.ErrInvalidState)
}

// The authoritative snapshot wins on submitted state; local draft edits
// survive reconciliation.
func TestReconcileAuthoritativeFirst(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha", "beta"}, nil, testMedia)

	price := 75.0
	_, err := store.Update(1, 10, "beta", models.DecisionFields{UnitPrice: &price})
	require.NoError(t, err)

	snapshot := []models.ProductDecision{
		submittedDecision(1, 10, "alpha"),
		*models.DefaultDecision(1, 10, "beta"),
	}
	store.Reconcile(1, 10, snapshot)

	alpha := store.Get(1, 10, "alpha")
	assert.True(t, alpha.Submitted())

	beta := store.Get(1, 10, "beta")
	assert.False(t, beta.Submitted())
	assert.Equal(t, 75.0, beta.UnitPrice)
}

func TestDraftsExcludesSubmitted(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha", "beta", "gamma"},
		[]models.ProductDecision{submittedDecision(1, 10, "beta")}, testMedia)

	drafts := store.Drafts(1, 10)
	require.Len(t, drafts, 2)
	for _, d := range drafts {
		assert.NotEqual(t, "beta", d.ProductID)
	}
}

func TestGetReturnsCopies(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha"}, nil, testMedia)

	first := store.Get(1, 10, "alpha")
	first.UnitPrice = 999

	second := store.Get(1, 10, "alpha")
	assert.Equal(t, 0.0, second.UnitPrice)
}

func TestForgetDropsSession(t *testing.T) {
	store := NewDecisionStore()
	store.Hydrate(1, 10, []string{"alpha"}, nil, testMedia)
	require.True(t, store.Hydrated(1, 10))

	store.Forget(1, 10)
	assert.False(t, store.Hydrated(1, 10))
}
