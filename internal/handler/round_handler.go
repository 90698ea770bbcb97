package handler

import (
	"database/sql"

	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/middleware"
	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// RoundHandler exposes the team's view of the round lifecycle.
type RoundHandler struct {
	roundRepo *repository.RoundRepository
}

// NewRoundHandler constructs a RoundHandler.
func NewRoundHandler(roundRepo *repository.RoundRepository) *RoundHandler {
	return &RoundHandler{roundRepo: roundRepo}
}

// GetCurrent handles GET /v1/rounds/current. The gate is always returned,
// even when no round is open, so clients can render the right state.
func (h *RoundHandler) GetCurrent(c *gin.Context) {
	team := middleware.GetTeam(c)

	round, err := h.activeRound(team)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to resolve active round")
		return
	}

	gate := service.ResolveGate(team, round)
	utils.Success(c, 200, "Current round retrieved", gin.H{
		"gate":  gate,
		"round": round,
	})
}

func (h *RoundHandler) activeRound(team *models.Team) (*models.Round, error) {
	if team == nil {
		return nil, nil
	}
	round, err := h.roundRepo.GetActiveByClass(team.ClassID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return round, err
}
