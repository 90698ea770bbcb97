package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// AdminHandler handles the instructor management endpoints.
type AdminHandler struct {
	adminService   *service.AdminService
	syncService    *service.ResultSyncService
	resultRepo     *repository.ResultRepository
	instructorAuth *service.InstructorAuthService
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(
	adminService *service.AdminService,
	syncService *service.ResultSyncService,
	resultRepo *repository.ResultRepository,
	instructorAuth *service.InstructorAuthService,
) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		syncService:    syncService,
		resultRepo:     resultRepo,
		instructorAuth: instructorAuth,
	}
}

// CreateTeam handles POST /v1/admin/teams
func (h *AdminHandler) CreateTeam(c *gin.Context) {
	var req struct {
		ClassID int    `json:"classId" binding:"required"`
		Name    string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	team, err := h.adminService.CreateTeam(req.ClassID, req.Name)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create team")
		return
	}

	// The plaintext key is only ever returned here.
	utils.Success(c, 201, "Team created", gin.H{
		"id":     team.ID,
		"name":   team.Name,
		"apiKey": team.APIKey,
	})
}

// ListTeams handles GET /v1/admin/classes/:classId/teams
func (h *AdminHandler) ListTeams(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid class id")
		return
	}

	teams, err := h.adminService.ListTeams(classID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to list teams")
		return
	}
	utils.Success(c, 200, "Teams retrieved", teams)
}

// RotateTeamKey handles POST /v1/admin/teams/:teamId/regenerate
func (h *AdminHandler) RotateTeamKey(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid team id")
		return
	}

	key, err := h.adminService.RotateTeamKey(teamID)
	if err == sql.ErrNoRows {
		utils.Error(c, 404, "TEAM_NOT_FOUND", "Team not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to rotate team key")
		return
	}
	utils.Success(c, 200, "Team key rotated", gin.H{"apiKey": key})
}

// ResetSubmission handles POST /v1/admin/teams/:teamId/rounds/:roundId/reset
func (h *AdminHandler) ResetSubmission(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("teamId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid team id")
		return
	}
	roundID, err := strconv.Atoi(c.Param("roundId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid round id")
		return
	}

	n, err := h.adminService.ResetSubmission(teamID, roundID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to reset submission")
		return
	}
	utils.Success(c, 200, "Submission reset", gin.H{"resetCount": n})
}

// GetRoundResults handles GET /v1/admin/rounds/:roundId/results
func (h *AdminHandler) GetRoundResults(c *gin.Context) {
	roundID, err := strconv.Atoi(c.Param("roundId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid round id")
		return
	}

	results, err := h.resultRepo.GetByRound(roundID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load results")
		return
	}
	utils.Success(c, 200, "Round results retrieved", results)
}

// TriggerResultSync handles POST /v1/admin/results/sync
// Manual trigger for the periodic result import.
func (h *AdminHandler) TriggerResultSync(c *gin.Context) {
	if err := h.syncService.SyncPendingRounds(c.Request.Context()); err != nil {
		utils.Error(c, 502, "SYNC_FAILED", "Result sync failed")
		return
	}
	utils.Success(c, 200, "Result sync completed", nil)
}

// CreateInstructor handles POST /v1/admin/instructors
func (h *AdminHandler) CreateInstructor(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.instructorAuth.CreateInstructor(req.Email, req.Password, req.Name); err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create instructor")
		return
	}
	utils.Success(c, 201, "Instructor created", nil)
}
