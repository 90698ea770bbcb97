package handler

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/middleware"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/service"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// SubmissionHandler drives the two-phase submission endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	roundRepo         *repository.RoundRepository
}

// NewSubmissionHandler constructs a SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, roundRepo *repository.RoundRepository) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		roundRepo:         roundRepo,
	}
}

// Begin handles POST /v1/rounds/current/submission
func (h *SubmissionHandler) Begin(c *gin.Context) {
	var req struct {
		ActiveProductID string `json:"activeProductId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	team := middleware.GetTeam(c)
	round, err := h.roundRepo.GetActiveByClass(team.ClassID)
	if err == sql.ErrNoRows {
		utils.Error(c, 404, "ROUND_NOT_FOUND", "No round is currently open")
		return
	}
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to resolve active round")
		return
	}

	pending, err := h.submissionService.Begin(c.Request.Context(), team, round, req.ActiveProductID)
	if err != nil {
		h.handleError(c, err, nil)
		return
	}

	utils.Success(c, 200, "Drafts flushed, confirmation required", gin.H{
		"token":      pending.Token,
		"productIds": pending.ProductIDs,
	})
}

// Confirm handles POST /v1/rounds/current/submission/confirm
func (h *SubmissionHandler) Confirm(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	team := middleware.GetTeam(c)
	outcome, err := h.submissionService.Confirm(c.Request.Context(), team, req.Token)
	if err != nil {
		h.handleError(c, err, outcome)
		return
	}

	utils.Success(c, 200, "All decisions submitted", outcome)
}

// Cancel handles POST /v1/rounds/current/submission/cancel
func (h *SubmissionHandler) Cancel(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	team := middleware.GetTeam(c)
	if err := h.submissionService.Cancel(c.Request.Context(), team, req.Token); err != nil {
		h.handleError(c, err, nil)
		return
	}

	utils.Success(c, 200, "Submission cancelled", nil)
}

func (h *SubmissionHandler) handleError(c *gin.Context, err error, outcome *service.SubmissionOutcome) {
	var flushErr *utils.FlushFailedError
	var partialErr *utils.PartialSubmissionFailedError

	switch {
	case errors.As(err, &partialErr):
		details := gin.H{"failures": partialErr.Failures}
		if outcome != nil {
			details["submittedProductIds"] = outcome.SubmittedProductIDs
		}
		utils.ErrorWithDetails(c, 502, "PARTIAL_SUBMISSION_FAILED", "Some decisions could not be submitted", details)
	case errors.As(err, &flushErr):
		utils.ErrorWithDetails(c, 502, "FLUSH_FAILED", "Could not save all drafts, nothing was submitted", gin.H{
			"productId": flushErr.ProductID,
		})
	case err == utils.ErrRoundNotEditable:
		utils.Error(c, 409, "ROUND_NOT_EDITABLE", "The round is not open for submission")
	case err == utils.ErrPrerequisitesIncomplete:
		utils.Error(c, 409, "PREREQUISITES_INCOMPLETE", "Complete all strategic analyses before submitting")
	case err == utils.ErrAlreadySubmitted:
		utils.Error(c, 409, "ALREADY_SUBMITTED", "The selected product has already been submitted")
	case err == utils.ErrNothingToSubmit:
		utils.Error(c, 409, "NOTHING_TO_SUBMIT", "There are no drafts left to submit")
	case err == utils.ErrNoPendingSubmission:
		utils.Error(c, 404, "NO_PENDING_SUBMISSION", "No pending submission for this token")
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}
