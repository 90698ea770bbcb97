package service

import "github.com/StratSim/stratsim_api/internal/models"

// GateStatus is the round lifecycle signal as seen by a team.
type GateStatus string

const (
	GateNoTeam        GateStatus = "no_team"
	GateNoActiveRound GateStatus = "no_active_round"
	GateRoundActive   GateStatus = "round_active"
)

// Gate reports whether decision editing is currently permitted and why.
type Gate struct {
	Status   GateStatus `json:"status"`
	Editable bool       `json:"editable"`
	Reason   string     `json:"reason"`
}

// ResolveGate derives the editing gate from externally supplied state. It is
// a pure function: editing is permitted only while a round is active,
// regardless of what has already been submitted.
func ResolveGate(team *models.Team, round *models.Round) Gate {
	switch {
	case team == nil:
		return Gate{
			Status: GateNoTeam,
			Reason: "You are not assigned to a team",
		}
	case round == nil || round.Status != models.RoundActive:
		return Gate{
			Status: GateNoActiveRound,
			Reason: "No round is currently open for decisions",
		}
	default:
		return Gate{
			Status:   GateRoundActive,
			Editable: true,
			Reason:   "Round is open for decisions",
		}
	}
}
