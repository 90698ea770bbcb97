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

// StrategyHandler handles the strategic-analysis endpoints of the active
// round.
type StrategyHandler struct {
	strategyService *service.StrategyService
	roundRepo       *repository.RoundRepository
}

// NewStrategyHandler constructs a StrategyHandler.
func NewStrategyHandler(strategyService *service.StrategyService, roundRepo *repository.RoundRepository) *StrategyHandler {
	return &StrategyHandler{
		strategyService: strategyService,
		roundRepo:       roundRepo,
	}
}

// Get handles GET /v1/rounds/current/strategy
func (h *StrategyHandler) Get(c *gin.Context) {
	team := middleware.GetTeam(c)
	round, _, ok := h.resolveRound(c, team)
	if !ok {
		return
	}

	tools, completion, err := h.strategyService.Get(team.ID, round.ID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load strategy tools")
		return
	}

	utils.Success(c, 200, "Strategy tools retrieved", gin.H{
		"tools":      tools,
		"completion": completion,
	})
}

// SaveSWOT handles PUT /v1/rounds/current/strategy/swot
func (h *StrategyHandler) SaveSWOT(c *gin.Context) {
	var swot models.SWOTAnalysis
	h.save(c, &swot, func(teamID, roundID int) error {
		return h.strategyService.SaveSWOT(teamID, roundID, swot)
	})
}

// SavePorter handles PUT /v1/rounds/current/strategy/porter
func (h *StrategyHandler) SavePorter(c *gin.Context) {
	var porter models.PorterAnalysis
	h.save(c, &porter, func(teamID, roundID int) error {
		return h.strategyService.SavePorter(teamID, roundID, porter)
	})
}

// SaveBCG handles PUT /v1/rounds/current/strategy/bcg
func (h *StrategyHandler) SaveBCG(c *gin.Context) {
	var bcg models.BCGMatrix
	h.save(c, &bcg, func(teamID, roundID int) error {
		return h.strategyService.SaveBCG(teamID, roundID, bcg)
	})
}

// SavePESTEL handles PUT /v1/rounds/current/strategy/pestel
func (h *StrategyHandler) SavePESTEL(c *gin.Context) {
	var pestel models.PESTELAnalysis
	h.save(c, &pestel, func(teamID, roundID int) error {
		return h.strategyService.SavePESTEL(teamID, roundID, pestel)
	})
}

// save binds the artifact payload, checks the gate, and persists via fn.
func (h *StrategyHandler) save(c *gin.Context, payload any, fn func(teamID, roundID int) error) {
	team := middleware.GetTeam(c)
	round, gate, ok := h.resolveRound(c, team)
	if !ok {
		return
	}
	if !gate.Editable {
		utils.Error(c, 409, "ROUND_NOT_EDITABLE", "The round is not open for editing")
		return
	}

	if err := c.ShouldBindJSON(payload); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := fn(team.ID, round.ID); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to save strategy tool")
		return
	}

	_, completion, err := h.strategyService.Get(team.ID, round.ID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load strategy tools")
		return
	}

	utils.Success(c, 200, "Strategy tool saved", gin.H{
		"completion": completion,
	})
}

func (h *StrategyHandler) resolveRound(c *gin.Context, team *models.Team) (*models.Round, service.Gate, bool) {
	round, err := h.roundRepo.GetActiveByClass(team.ClassID)
	if err == sql.ErrNoRows {
		utils.Error(c, 404, "ROUND_NOT_FOUND", "No round is currently open")
		return nil, service.Gate{}, false
	}
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to resolve active round")
		return nil, service.Gate{}, false
	}
	return round, service.ResolveGate(team, round), true
}
