package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StratSim/stratsim_api/internal/cache"
	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/utils"
)

type stubSaver struct {
	mu        sync.Mutex
	failFinal map[string]error
	failFlush map[string]error
	finals    []string
	flushes   []string
}

func (s *stubSaver) SaveDecision(_ context.Context, d *models.ProductDecision, final bool) (*models.ProductDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if final {
		if err := s.failFinal[d.ProductID]; err != nil {
			return nil, err
		}
		s.finals = append(s.finals, d.ProductID)
	} else {
		if err := s.failFlush[d.ProductID]; err != nil {
			return nil, err
		}
		s.flushes = append(s.flushes, d.ProductID)
	}

	saved := *d
	if final {
		now := time.Now()
		saved.SubmittedAt = &now
	}
	return &saved, nil
}

type stubSession struct {
	mu      sync.Mutex
	records map[string]*models.ProductDecision
}

func newStubSession(teamID, roundID int, submitted, drafts []string) *stubSession {
	s := &stubSession{records: make(map[string]*models.ProductDecision)}
	for _, pid := range submitted {
		d := models.DefaultDecision(teamID, roundID, pid)
		now := time.Now()
		d.SubmittedAt = &now
		s.records[pid] = d
	}
	for _, pid := range drafts {
		s.records[pid] = models.DefaultDecision(teamID, roundID, pid)
	}
	return s
}

func (s *stubSession) List(teamID, roundID int) ([]models.ProductDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProductDecision, 0, len(s.records))
	for _, d := range s.records {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (s *stubSession) Drafts(teamID, roundID int) []models.ProductDecision {
	s.mu.Lock()
	defer s.mu.Unlock()
	var drafts []models.ProductDecision
	for _, d := range s.records {
		if !d.Submitted() {
			drafts = append(drafts, *d)
		}
	}
	return drafts
}

func (s *stubSession) Apply(record *models.ProductDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *record
	s.records[record.ProductID] = &cp
}

func (s *stubSession) submittedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for pid, d := range s.records {
		if d.Submitted() {
			ids = append(ids, pid)
		}
	}
	sort.Strings(ids)
	return ids
}

type stubGating struct {
	complete bool
	err      error
}

func (s *stubGating) AllComplete(teamID, roundID int) (bool, error) {
	return s.complete, s.err
}

type stubPending struct {
	mu      sync.Mutex
	entries map[string]*cache.PendingSubmission
}

func newStubPending() *stubPending {
	return &stubPending{entries: make(map[string]*cache.PendingSubmission)}
}

func (s *stubPending) Set(_ context.Context, p *cache.PendingSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[p.Token] = p
	return nil
}

func (s *stubPending) GetByToken(_ context.Context, token string) (*cache.PendingSubmission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.entries[token]
	if !ok {
		return nil, redis.Nil
	}
	return p, nil
}

func (s *stubPending) Delete(_ context.Context, p *cache.PendingSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, p.Token)
	return nil
}

func activeFixture() (*models.Team, *models.Round) {
	return &models.Team{ID: 1, ClassID: 1, IsActive: true},
		&models.Round{ID: 10, ClassID: 1, Number: 2, Status: models.RoundActive}
}

// Two products already submitted, two drafts. Flush, confirm, and batch
// submit all succeed: every product ends up submitted.
func TestSubmitAllHappyPath(t *testing.T) {
	team, round := activeFixture()
	saver := &stubSaver{}
	session := newStubSession(1, 10, []string{"alpha", "beta"}, []string{"gamma", "delta"})
	pending := newStubPending()
	svc := NewSubmissionService(saver, session, &stubGating{complete: true}, pending, nil)

	p, err := svc.Begin(context.Background(), team, round, "gamma")
	require.NoError(t, err)
	require.NotEmpty(t, p.Token)
	assert.ElementsMatch(t, []string{"gamma", "delta"}, p.ProductIDs)
	assert.ElementsMatch(t, []string{"gamma", "delta"}, saver.flushes)

	outcome, err := svc.Confirm(context.Background(), team, p.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"delta", "gamma"}, outcome.SubmittedProductIDs)
	assert.Equal(t, []string{"alpha", "beta", "delta", "gamma"}, session.submittedIDs())
}

// One of the two batch submits fails: the other stays submitted, the error
// names exactly the failed product, and a retry attempts only that one.
func TestSubmitAllPartialFailure(t *testing.T) {
	team, round := activeFixture()
	saver := &stubSaver{failFinal: map[string]error{"delta": errors.New("engine timeout")}}
	session := newStubSession(1, 10, []string{"alpha", "beta"}, []string{"gamma", "delta"})
	pending := newStubPending()
	svc := NewSubmissionService(saver, session, &stubGating{complete: true}, pending, nil)

	p, err := svc.Begin(context.Background(), team, round, "gamma")
	require.NoError(t, err)

	outcome, err := svc.Confirm(context.Background(), team, p.Token)
	var partial *utils.PartialSubmissionFailedError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"delta"}, partial.FailedProductIDs())

	require.NotNil(t, outcome)
	assert.Equal(t, []string{"gamma"}, outcome.SubmittedProductIDs)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, session.submittedIDs())

	// Retry picks up only the remaining draft.
	saver.failFinal = nil
	p2, err := svc.Begin(context.Background(), team, round, "delta")
	require.NoError(t, err)
	assert.Equal(t, []string{"delta"}, p2.ProductIDs)

	outcome2, err := svc.Confirm(context.Background(), team, p2.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"delta"}, outcome2.SubmittedProductIDs)
	assert.Equal(t, []string{"alpha", "beta", "delta", "gamma"}, session.submittedIDs())
}

func TestBeginRequiresActiveRound(t *testing.T) {
	team, _ := activeFixture()
	completed := &models.Round{ID: 10, ClassID: 1, Number: 2, Status: models.RoundCompleted}
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, nil, []string{"alpha"}),
		&stubGating{complete: true}, newStubPending(), nil)

	_, err := svc.Begin(context.Background(), team, completed, "alpha")
	assert.ErrorIs(t, err, utils.ErrRoundNotEditable)
}

func TestBeginRequiresCompletePrerequisites(t *testing.T) {
	team, round := activeFixture()
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, nil, []string{"alpha"}),
		&stubGating{complete: false}, newStubPending(), nil)

	_, err := svc.Begin(context.Background(), team, round, "alpha")
	assert.ErrorIs(t, err, utils.ErrPrerequisitesIncomplete)
}

func TestBeginOnSubmittedProduct(t *testing.T) {
	team, round := activeFixture()
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, []string{"alpha"}, []string{"beta"}),
		&stubGating{complete: true}, newStubPending(), nil)

	_, err := svc.Begin(context.Background(), team, round, "alpha")
	assert.ErrorIs(t, err, utils.ErrAlreadySubmitted)
}

func TestBeginNothingToSubmit(t *testing.T) {
	team, round := activeFixture()
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, []string{"alpha", "beta"}, nil),
		&stubGating{complete: true}, newStubPending(), nil)

	_, err := svc.Begin(context.Background(), team, round, "beta")
	assert.ErrorIs(t, err, utils.ErrNothingToSubmit)
}

// A failed flush aborts the whole call before anything is parked for
// confirmation; nothing gets submitted.
func TestBeginFlushFailure(t *testing.T) {
	team, round := activeFixture()
	saver := &stubSaver{failFlush: map[string]error{"beta": errors.New("db down")}}
	session := newStubSession(1, 10, nil, []string{"alpha", "beta"})
	pending := newStubPending()
	svc := NewSubmissionService(saver, session, &stubGating{complete: true}, pending, nil)

	_, err := svc.Begin(context.Background(), team, round, "alpha")
	var flushErr *utils.FlushFailedError
	require.ErrorAs(t, err, &flushErr)
	assert.Equal(t, "beta", flushErr.ProductID)

	assert.Empty(t, pending.entries)
	assert.Empty(t, session.submittedIDs())
}

func TestConfirmUnknownToken(t *testing.T) {
	team, _ := activeFixture()
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, nil, []string{"alpha"}),
		&stubGating{complete: true}, newStubPending(), nil)

	_, err := svc.Confirm(context.Background(), team, "no-such-token")
	assert.ErrorIs(t, err, utils.ErrNoPendingSubmission)
}

func TestConfirmWrongTeam(t *testing.T) {
	team, round := activeFixture()
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, nil, []string{"alpha"}),
		&stubGating{complete: true}, newStubPending(), nil)

	p, err := svc.Begin(context.Background(), team, round, "alpha")
	require.NoError(t, err)

	other := &models.Team{ID: 2, ClassID: 1, IsActive: true}
	_, err = svc.Confirm(context.Background(), other, p.Token)
	assert.ErrorIs(t, err, utils.ErrNoPendingSubmission)
}

// The token is consumed on first confirm; a second confirm cannot replay
// the batch.
func TestConfirmConsumesToken(t *testing.T) {
	team, round := activeFixture()
	svc := NewSubmissionService(&stubSaver{}, newStubSession(1, 10, nil, []string{"alpha"}),
		&stubGating{complete: true}, newStubPending(), nil)

	p, err := svc.Begin(context.Background(), team, round, "alpha")
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), team, p.Token)
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), team, p.Token)
	assert.ErrorIs(t, err, utils.ErrNoPendingSubmission)
}

// Cancelling keeps the flushed drafts as drafts.
func TestCancelLeavesDrafts(t *testing.T) {
	team, round := activeFixture()
	session := newStubSession(1, 10, nil, []string{"alpha", "beta"})
	pending := newStubPending()
	svc := NewSubmissionService(&stubSaver{}, session, &stubGating{complete: true}, pending, nil)

	p, err := svc.Begin(context.Background(), team, round, "alpha")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(context.Background(), team, p.Token))
	assert.Empty(t, pending.entries)
	assert.Empty(t, session.submittedIDs())
	assert.Len(t, session.Drafts(1, 10), 2)
}
