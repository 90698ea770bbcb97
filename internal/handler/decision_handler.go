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

// DecisionHandler handles the team decision endpoints of the active round.
type DecisionHandler struct {
	decisionService *service.DecisionService
	roundRepo       *repository.RoundRepository
}

// NewDecisionHandler constructs a DecisionHandler.
func NewDecisionHandler(decisionService *service.DecisionService, roundRepo *repository.RoundRepository) *DecisionHandler {
	return &DecisionHandler{
		decisionService: decisionService,
		roundRepo:       roundRepo,
	}
}

// List handles GET /v1/rounds/current/decisions
func (h *DecisionHandler) List(c *gin.Context) {
	team := middleware.GetTeam(c)
	round, gate, ok := h.resolveRound(c, team)
	if !ok {
		return
	}

	decisions, err := h.decisionService.List(team.ID, round.ID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load decisions")
		return
	}

	utils.Success(c, 200, "Decisions retrieved", gin.H{
		"gate":      gate,
		"decisions": decisions,
	})
}

// UpdateDraft handles PUT /v1/rounds/current/decisions/:productId
func (h *DecisionHandler) UpdateDraft(c *gin.Context) {
	team := middleware.GetTeam(c)
	round, gate, ok := h.resolveRound(c, team)
	if !ok {
		return
	}
	productID := c.Param("productId")

	var fields models.DecisionFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	decision, err := h.decisionService.UpdateDraft(gate, team.ID, round.ID, productID, fields)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Draft updated", decision)
}

// resolveRound loads the active round of the team's class and writes the
// error response itself when there is none.
func (h *DecisionHandler) resolveRound(c *gin.Context, team *models.Team) (*models.Round, service.Gate, bool) {
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

func (h *DecisionHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrRoundNotEditable:
		utils.Error(c, 409, "ROUND_NOT_EDITABLE", "The round is not open for editing")
	case utils.ErrUnknownMedia:
		utils.Error(c, 400, "UNKNOWN_MEDIA", "Promotion mix references an unknown media channel")
	case utils.ErrBudgetOutsideMix:
		utils.Error(c, 400, "BUDGET_OUTSIDE_MIX", "Budgets may only target media in the promotion mix")
	case utils.ErrInvalidState:
		utils.Error(c, 409, "ALREADY_SUBMITTED", "The decision has already been submitted")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
