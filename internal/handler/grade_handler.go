package handler

import (
	"database/sql"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/middleware"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// GradeHandler exposes grades: a team sees its own, instructors see the
// whole cohort.
type GradeHandler struct {
	gradingService *service.GradingService
	roundRepo      *repository.RoundRepository
}

// NewGradeHandler constructs a GradeHandler.
func NewGradeHandler(gradingService *service.GradingService, roundRepo *repository.RoundRepository) *GradeHandler {
	return &GradeHandler{
		gradingService: gradingService,
		roundRepo:      roundRepo,
	}
}

// GetTeamRoundGrade handles GET /v1/rounds/:roundId/grade
func (h *GradeHandler) GetTeamRoundGrade(c *gin.Context) {
	team := middleware.GetTeam(c)

	roundID, err := strconv.Atoi(c.Param("roundId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid round id")
		return
	}

	round, err := h.roundRepo.GetByID(roundID)
	if err == sql.ErrNoRows {
		utils.Error(c, 404, "ROUND_NOT_FOUND", "Round not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load round")
		return
	}
	// Teams can only see rounds of their own class.
	if round.ClassID != team.ClassID {
		utils.Error(c, 404, "ROUND_NOT_FOUND", "Round not found")
		return
	}

	grade, err := h.gradingService.TeamRoundGrade(c.Request.Context(), round, team.ID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Round grade retrieved", grade)
}

// GetTeamFinalGrade handles GET /v1/grades/final
func (h *GradeHandler) GetTeamFinalGrade(c *gin.Context) {
	team := middleware.GetTeam(c)

	finals, err := h.gradingService.FinalGrades(c.Request.Context(), team.ClassID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute final grades")
		return
	}

	for i := range finals {
		if finals[i].TeamID == team.ID {
			utils.Success(c, 200, "Final grade retrieved", finals[i])
			return
		}
	}
	utils.Error(c, 404, "TEAM_NOT_FOUND", "Team has no final grade")
}

// GetRoundGrades handles GET /v1/admin/rounds/:roundId/grades
func (h *GradeHandler) GetRoundGrades(c *gin.Context) {
	roundID, err := strconv.Atoi(c.Param("roundId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid round id")
		return
	}

	round, err := h.roundRepo.GetByID(roundID)
	if err == sql.ErrNoRows {
		utils.Error(c, 404, "ROUND_NOT_FOUND", "Round not found")
		return
	}
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load round")
		return
	}

	grades, err := h.gradingService.RoundGrades(c.Request.Context(), round)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.Success(c, 200, "Round grades retrieved", gin.H{
		"roundId": round.ID,
		"grades":  grades,
	})
}

// GetFinalGrades handles GET /v1/admin/classes/:classId/grades
func (h *GradeHandler) GetFinalGrades(c *gin.Context) {
	classID, err := strconv.Atoi(c.Param("classId"))
	if err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid class id")
		return
	}

	finals, err := h.gradingService.FinalGrades(c.Request.Context(), classID)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to compute final grades")
		return
	}

	utils.Success(c, 200, "Final grades retrieved", gin.H{
		"classId": classID,
		"grades":  finals,
	})
}

func (h *GradeHandler) handleError(c *gin.Context, err error) {
	switch err {
	case utils.ErrRoundNotGradable:
		utils.Error(c, 409, "ROUND_NOT_GRADABLE", "The round is not graded")
	case utils.ErrResultsNotReady:
		utils.Error(c, 409, "RESULTS_NOT_READY", "Round results have not been imported yet")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
