package utils

import (
	"errors"
	"fmt"
	"strings"
)

// Common application errors used across services.
var (
	ErrInvalidToken             = errors.New("INVALID_TOKEN")
	ErrInvalidTeam              = errors.New("INVALID_TEAM")
	ErrRoundNotFound            = errors.New("ROUND_NOT_FOUND")
	ErrRoundNotEditable         = errors.New("ROUND_NOT_EDITABLE")
	ErrUnknownMedia             = errors.New("UNKNOWN_MEDIA")
	ErrBudgetOutsideMix         = errors.New("BUDGET_OUTSIDE_MIX")
	ErrInvalidState             = errors.New("INVALID_STATE")
	ErrPrerequisitesIncomplete  = errors.New("PREREQUISITES_INCOMPLETE")
	ErrAlreadySubmitted         = errors.New("ALREADY_SUBMITTED")
	ErrNothingToSubmit          = errors.New("NOTHING_TO_SUBMIT")
	ErrNoPendingSubmission      = errors.New("NO_PENDING_SUBMISSION")
	ErrResultsNotReady          = errors.New("RESULTS_NOT_READY")
	ErrRoundNotGradable         = errors.New("ROUND_NOT_GRADABLE")
)

// FlushFailedError aborts a submission during the draft-flush phase. No
// product was submitted; the whole call is safe to retry.
type FlushFailedError struct {
	ProductID string
	Cause     error
}

func (e *FlushFailedError) Error() string {
	return fmt.Sprintf("FLUSH_FAILED: product %s: %v", e.ProductID, e.Cause)
}

func (e *FlushFailedError) Unwrap() error { return e.Cause }

// ProductFailure is one failed submit within a batch.
type ProductFailure struct {
	ProductID string `json:"productId"`
	Cause     error  `json:"-"`
	Message   string `json:"message"`
}

// PartialSubmissionFailedError reports a batch submit where some products
// failed. Products not listed here were submitted and stay submitted; only
// the listed ones remain drafts and should be retried.
type PartialSubmissionFailedError struct {
	Failures []ProductFailure
}

func (e *PartialSubmissionFailedError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ProductID
	}
	return fmt.Sprintf("PARTIAL_SUBMISSION_FAILED: %s", strings.Join(ids, ", "))
}

// FailedProductIDs returns the ids of the products that failed to submit.
func (e *PartialSubmissionFailedError) FailedProductIDs() []string {
	ids := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		ids[i] = f.ProductID
	}
	return ids
}
