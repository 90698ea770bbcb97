package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/StratSim/stratsim_api/internal/models"
)

func TestResolveGateNoTeam(t *testing.T) {
	gate := ResolveGate(nil, &models.Round{Status: models.RoundActive})

	assert.Equal(t, GateNoTeam, gate.Status)
	assert.False(t, gate.Editable)
}

func TestResolveGateNoActiveRound(t *testing.T) {
	team := &models.Team{ID: 1}

	for _, round := range []*models.Round{
		nil,
		{Status: models.RoundDraft},
		{Status: models.RoundCompleted},
	} {
		gate := ResolveGate(team, round)
		assert.Equal(t, GateNoActiveRound, gate.Status)
		assert.False(t, gate.Editable)
	}
}

func TestResolveGateActiveRound(t *testing.T) {
	gate := ResolveGate(&models.Team{ID: 1}, &models.Round{Status: models.RoundActive})

	assert.Equal(t, GateRoundActive, gate.Status)
	assert.True(t, gate.Editable)
}
