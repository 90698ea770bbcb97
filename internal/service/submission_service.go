package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/cache"
	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/sse"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// DecisionSaver persists one decision. With final=true the save also stamps
// the submission timestamp. Each call is an independent, fallible write.
type DecisionSaver interface {
	SaveDecision(ctx context.Context, d *models.ProductDecision, final bool) (*models.ProductDecision, error)
}

// DraftSession is the team's decision session the coordinator works against.
// List reconciles the authoritative snapshot in before returning.
type DraftSession interface {
	List(teamID, roundID int) ([]models.ProductDecision, error)
	Drafts(teamID, roundID int) []models.ProductDecision
	Apply(record *models.ProductDecision)
}

// GatingChecker evaluates the strategic-tool prerequisite.
type GatingChecker interface {
	AllComplete(teamID, roundID int) (bool, error)
}

// PendingStore holds awaiting-confirmation submissions.
type PendingStore interface {
	Set(ctx context.Context, p *cache.PendingSubmission) error
	GetByToken(ctx context.Context, token string) (*cache.PendingSubmission, error)
	Delete(ctx context.Context, p *cache.PendingSubmission) error
}

// SubmissionOutcome summarizes a batch submit. On a partial failure the
// outcome is returned alongside the error so callers can see what did go
// through.
type SubmissionOutcome struct {
	SubmittedProductIDs []string `json:"submittedProductIds"`
}

// SubmissionService drives the two-phase submission protocol: a sequential
// best-effort flush of all drafts, an explicit confirmation window, then a
// concurrent batch submit whose outcomes are collected independently.
// Products move Draft -> Submitted only here; there is no way back short of
// an instructor reset outside this service.
type SubmissionService struct {
	saver    DecisionSaver
	session  DraftSession
	gating   GatingChecker
	pending  PendingStore
	notifier sse.SubmissionNotifier
}

// NewSubmissionService constructs a SubmissionService.
func NewSubmissionService(
	saver DecisionSaver,
	session DraftSession,
	gating GatingChecker,
	pending PendingStore,
	notifier sse.SubmissionNotifier,
) *SubmissionService {
	if notifier == nil {
		notifier = &sse.NopNotifier{}
	}
	return &SubmissionService{
		saver:    saver,
		session:  session,
		gating:   gating,
		pending:  pending,
		notifier: notifier,
	}
}

// Begin runs preconditions and the flush phase, then parks the submission in
// the pending store until the caller confirms or cancels.
// activeProductID is the product the team currently has on screen; asking to
// submit while viewing an already-submitted product is a no-op error.
func (s *SubmissionService) Begin(ctx context.Context, team *models.Team, round *models.Round, activeProductID string) (*cache.PendingSubmission, error) {
	gate := ResolveGate(team, round)
	if !gate.Editable {
		return nil, utils.ErrRoundNotEditable
	}

	complete, err := s.gating.AllComplete(team.ID, round.ID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, utils.ErrPrerequisitesIncomplete
	}

	// Reconcile the authoritative snapshot before judging submission state.
	records, err := s.session.List(team.ID, round.ID)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ProductID == activeProductID && records[i].Submitted() {
			return nil, utils.ErrAlreadySubmitted
		}
	}

	drafts := s.session.Drafts(team.ID, round.ID)
	if len(drafts) == 0 {
		return nil, utils.ErrNothingToSubmit
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].ProductID < drafts[j].ProductID })

	// Flush phase: sequential and best-effort. The first failure aborts the
	// whole call before anything is submitted; earlier flushes stay persisted
	// as drafts and carry no submission state.
	productIDs := make([]string, 0, len(drafts))
	for i := range drafts {
		saved, err := s.saver.SaveDecision(ctx, &drafts[i], false)
		if err != nil {
			log.Error().Err(err).
				Int("team_id", team.ID).
				Int("round_id", round.ID).
				Str("product_id", drafts[i].ProductID).
				Msg("Draft flush failed, aborting submission")
			return nil, &utils.FlushFailedError{ProductID: drafts[i].ProductID, Cause: err}
		}
		s.session.Apply(saved)
		productIDs = append(productIDs, saved.ProductID)
	}

	p := &cache.PendingSubmission{
		Token:      uuid.New().String(),
		TeamID:     team.ID,
		RoundID:    round.ID,
		ProductIDs: productIDs,
		FlushedAt:  time.Now(),
	}
	if err := s.pending.Set(ctx, p); err != nil {
		return nil, err
	}

	log.Info().
		Int("team_id", team.ID).
		Int("round_id", round.ID).
		Strs("products", productIDs).
		Msg("Drafts flushed, awaiting submission confirmation")
	return p, nil
}

// Confirm consumes the pending submission and runs the batch-submit phase:
// one independent submit per remaining draft, fanned out concurrently and
// joined for all outcomes. Successes are never rolled back; failures are
// aggregated into a PartialSubmissionFailedError and can be retried with a
// fresh Begin.
func (s *SubmissionService) Confirm(ctx context.Context, team *models.Team, token string) (*SubmissionOutcome, error) {
	p, err := s.pending.GetByToken(ctx, token)
	if err == redis.Nil {
		return nil, utils.ErrNoPendingSubmission
	} else if err != nil {
		return nil, err
	}
	if p.TeamID != team.ID {
		return nil, utils.ErrNoPendingSubmission
	}

	// Consume the token before submitting so a double confirm cannot race
	// two batches.
	if err := s.pending.Delete(ctx, p); err != nil {
		log.Warn().Err(err).Str("token", token).Msg("Failed to delete pending submission")
	}

	// Recompute the draft set: the confirmation may have been arbitrarily
	// delayed and the authoritative snapshot has the last word.
	if _, err := s.session.List(p.TeamID, p.RoundID); err != nil {
		return nil, err
	}
	drafts := s.session.Drafts(p.TeamID, p.RoundID)
	if len(drafts) == 0 {
		return nil, utils.ErrNothingToSubmit
	}

	type submitResult struct {
		productID string
		saved     *models.ProductDecision
		err       error
	}

	// Fan out one submit per draft and join all outcomes. One failing or
	// slow product must not cancel or block the others.
	results := make(chan submitResult, len(drafts))
	var wg sync.WaitGroup
	for i := range drafts {
		d := drafts[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			saved, err := s.saver.SaveDecision(ctx, &d, true)
			results <- submitResult{productID: d.ProductID, saved: saved, err: err}
		}()
	}
	wg.Wait()
	close(results)

	outcome := &SubmissionOutcome{}
	var failures []utils.ProductFailure
	for r := range results {
		if r.err != nil {
			failures = append(failures, utils.ProductFailure{
				ProductID: r.productID,
				Cause:     r.err,
				Message:   r.err.Error(),
			})
			continue
		}
		s.session.Apply(r.saved)
		outcome.SubmittedProductIDs = append(outcome.SubmittedProductIDs, r.productID)
	}
	sort.Strings(outcome.SubmittedProductIDs)
	sort.Slice(failures, func(i, j int) bool { return failures[i].ProductID < failures[j].ProductID })

	if len(failures) > 0 {
		partial := &utils.PartialSubmissionFailedError{Failures: failures}
		log.Error().
			Int("team_id", p.TeamID).
			Int("round_id", p.RoundID).
			Strs("failed", partial.FailedProductIDs()).
			Strs("submitted", outcome.SubmittedProductIDs).
			Msg("Batch submit partially failed")
		s.notifier.NotifySubmissionPartialFailure(p.TeamID, p.RoundID, partial.FailedProductIDs())
		return outcome, partial
	}

	log.Info().
		Int("team_id", p.TeamID).
		Int("round_id", p.RoundID).
		Strs("products", outcome.SubmittedProductIDs).
		Msg("All decisions submitted")
	s.notifier.NotifySubmissionCompleted(p.TeamID, p.RoundID, outcome.SubmittedProductIDs)
	return outcome, nil
}

// Cancel abandons a pending submission. Flushed drafts stay drafts; nothing
// else changes.
func (s *SubmissionService) Cancel(ctx context.Context, team *models.Team, token string) error {
	p, err := s.pending.GetByToken(ctx, token)
	if err == redis.Nil {
		return utils.ErrNoPendingSubmission
	} else if err != nil {
		return err
	}
	if p.TeamID != team.ID {
		return utils.ErrNoPendingSubmission
	}
	return s.pending.Delete(ctx, p)
}
