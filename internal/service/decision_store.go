package service

import (
	"sync"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/utils"
)

type sessionKey struct {
	teamID  int
	roundID int
}

// DecisionStore holds the in-flight decision records of editing sessions,
// one record per product keyed by product id. Drafts live here between
// flushes; the decisions table stays authoritative for submission state.
// A single mutex is enough: each team only ever writes its own session.
type DecisionStore struct {
	mu       sync.RWMutex
	sessions map[sessionKey]map[string]*models.ProductDecision
}

// NewDecisionStore creates an empty DecisionStore.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{
		sessions: make(map[sessionKey]map[string]*models.ProductDecision),
	}
}

// Hydrated reports whether a session exists for the team/round.
func (s *DecisionStore) Hydrated(teamID, roundID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[sessionKey{teamID, roundID}]
	return ok
}

// Hydrate bulk-loads a session: a default record for every product in the
// portfolio, overlaid with the persisted records. Promotion-mix entries and
// budget keys referencing media outside the current valid set are dropped
// silently; legacy identifiers linger in old records and are not an error.
func (s *DecisionStore) Hydrate(teamID, roundID int, productIDs []string, records []models.ProductDecision, validMedia map[string]bool) {
	session := make(map[string]*models.ProductDecision, len(productIDs))
	for _, pid := range productIDs {
		session[pid] = models.DefaultDecision(teamID, roundID, pid)
	}

	for i := range records {
		rec := cloneDecision(&records[i])
		dropped := normalizeMedia(rec, validMedia)
		if len(dropped) > 0 {
			log.Warn().
				Int("team_id", teamID).
				Int("round_id", roundID).
				Str("product_id", rec.ProductID).
				Strs("dropped_media", dropped).
				Msg("Dropped unknown media identifiers during hydration")
		}
		session[rec.ProductID] = rec
	}

	s.mu.Lock()
	s.sessions[sessionKey{teamID, roundID}] = session
	s.mu.Unlock()
}

// Get returns a copy of the stored record, or the default record when the
// team has not touched that product yet.
func (s *DecisionStore) Get(teamID, roundID int, productID string) *models.ProductDecision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if session, ok := s.sessions[sessionKey{teamID, roundID}]; ok {
		if d, ok := session[productID]; ok {
			return cloneDecision(d)
		}
	}
	return models.DefaultDecision(teamID, roundID, productID)
}

// Update merges partial fields into a draft record. A submitted record is
// immutable and yields ErrInvalidState.
func (s *DecisionStore) Update(teamID, roundID int, productID string, fields models.DecisionFields) (*models.ProductDecision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{teamID, roundID}
	session, ok := s.sessions[key]
	if !ok {
		session = make(map[string]*models.ProductDecision)
		s.sessions[key] = session
	}

	d, ok := session[productID]
	if !ok {
		d = models.DefaultDecision(teamID, roundID, productID)
		session[productID] = d
	}
	if d.Submitted() {
		return nil, utils.ErrInvalidState
	}

	mergeFields(d, fields)
	return cloneDecision(d), nil
}

// Reconcile overlays the authoritative snapshot onto the session. Submitted
// records are taken from the snapshot wholesale; for drafts the local field
// values win and only the persistence metadata is refreshed. Products the
// snapshot knows but the session does not are inserted.
func (s *DecisionStore) Reconcile(teamID, roundID int, authoritative []models.ProductDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{teamID, roundID}
	session, ok := s.sessions[key]
	if !ok {
		session = make(map[string]*models.ProductDecision)
		s.sessions[key] = session
	}

	for i := range authoritative {
		rec := &authoritative[i]
		local, ok := session[rec.ProductID]
		if !ok || rec.Submitted() {
			session[rec.ProductID] = cloneDecision(rec)
			continue
		}
		local.ID = rec.ID
		local.SubmittedAt = nil
		local.CreatedAt = rec.CreatedAt
		local.UpdatedAt = rec.UpdatedAt
	}
}

// Drafts returns copies of every unsubmitted record in the session, in
// product-id order as stored.
func (s *DecisionStore) Drafts(teamID, roundID int) []models.ProductDecision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionKey{teamID, roundID}]
	if !ok {
		return nil
	}
	var drafts []models.ProductDecision
	for _, d := range session {
		if !d.Submitted() {
			drafts = append(drafts, *cloneDecision(d))
		}
	}
	return drafts
}

// All returns copies of every record in the session.
func (s *DecisionStore) All(teamID, roundID int) []models.ProductDecision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionKey{teamID, roundID}]
	if !ok {
		return nil
	}
	all := make([]models.ProductDecision, 0, len(session))
	for _, d := range session {
		all = append(all, *cloneDecision(d))
	}
	return all
}

// Apply overwrites the stored record with a persisted one, e.g. after a
// flush or submit returned the saved row.
func (s *DecisionStore) Apply(record *models.ProductDecision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey{record.TeamID, record.RoundID}
	session, ok := s.sessions[key]
	if !ok {
		session = make(map[string]*models.ProductDecision)
		s.sessions[key] = session
	}
	session[record.ProductID] = cloneDecision(record)
}

// Forget drops the whole session, forcing a re-hydration from the
// persisted snapshot on the next touch. Used after an instructor reset.
func (s *DecisionStore) Forget(teamID, roundID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionKey{teamID, roundID})
}

// normalizeMedia removes promotion-mix entries outside the valid set and
// budget keys outside the remaining mix. Returns the dropped identifiers.
func normalizeMedia(d *models.ProductDecision, validMedia map[string]bool) []string {
	var dropped []string

	mix := make(pq.StringArray, 0, len(d.PromotionMix))
	inMix := make(map[string]bool, len(d.PromotionMix))
	for _, id := range d.PromotionMix {
		if validMedia[id] {
			mix = append(mix, id)
			inMix[id] = true
		} else {
			dropped = append(dropped, id)
		}
	}
	d.PromotionMix = mix

	budgets := make(models.BudgetMap, len(d.Budgets))
	for id, amount := range d.Budgets {
		if inMix[id] {
			budgets[id] = amount
		} else if !validMedia[id] {
			dropped = append(dropped, id)
		}
	}
	d.Budgets = budgets

	return dropped
}

// mergeFields applies non-nil partial fields onto a draft.
func mergeFields(d *models.ProductDecision, fields models.DecisionFields) {
	if fields.Quality != nil {
		d.Quality = *fields.Quality
	}
	if fields.Features != nil {
		d.Features = *fields.Features
	}
	if fields.Positioning != nil {
		d.Positioning = *fields.Positioning
	}
	if fields.PriceStrategy != nil {
		d.PriceStrategy = *fields.PriceStrategy
	}
	if fields.UnitPrice != nil {
		d.UnitPrice = *fields.UnitPrice
	}
	if fields.Channels != nil {
		d.Channels = pq.StringArray(*fields.Channels)
	}
	if fields.Coverage != nil {
		d.Coverage = *fields.Coverage
	}
	if fields.PromotionMix != nil {
		d.PromotionMix = pq.StringArray(*fields.PromotionMix)
	}
	if fields.Budgets != nil {
		d.Budgets = models.BudgetMap(*fields.Budgets)
	}
}

// cloneDecision deep-copies a decision record.
func cloneDecision(d *models.ProductDecision) *models.ProductDecision {
	cp := *d
	cp.Channels = append(pq.StringArray{}, d.Channels...)
	cp.PromotionMix = append(pq.StringArray{}, d.PromotionMix...)
	cp.Budgets = make(models.BudgetMap, len(d.Budgets))
	for k, v := range d.Budgets {
		cp.Budgets[k] = v
	}
	if d.SubmittedAt != nil {
		t := *d.SubmittedAt
		cp.SubmittedAt = &t
	}
	return &cp
}
