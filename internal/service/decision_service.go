package service

import (
	"sort"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// DecisionService manages a team's decision records for the active round:
// hydration from the persisted snapshot, draft edits, and the
// authoritative-first submitted state used by the submission flow.
type DecisionService struct {
	decisionRepo *repository.DecisionRepository
	productRepo  *repository.ProductRepository
	mediaRepo    *repository.MediaRepository
	store        *DecisionStore
}

// NewDecisionService constructs a DecisionService.
func NewDecisionService(
	decisionRepo *repository.DecisionRepository,
	productRepo *repository.ProductRepository,
	mediaRepo *repository.MediaRepository,
	store *DecisionStore,
) *DecisionService {
	return &DecisionService{
		decisionRepo: decisionRepo,
		productRepo:  productRepo,
		mediaRepo:    mediaRepo,
		store:        store,
	}
}

// List returns the team's decision record for every active product, creating
// default records for untouched products. The persisted snapshot is
// reconciled in so submitted state is always authoritative.
func (s *DecisionService) List(teamID, roundID int) ([]models.ProductDecision, error) {
	if err := s.ensureSession(teamID, roundID); err != nil {
		return nil, err
	}

	authoritative, err := s.decisionRepo.GetByTeamRound(teamID, roundID)
	if err != nil {
		return nil, err
	}
	s.store.Reconcile(teamID, roundID, authoritative)

	decisions := s.store.All(teamID, roundID)
	sort.Slice(decisions, func(i, j int) bool { return decisions[i].ProductID < decisions[j].ProductID })
	return decisions, nil
}

// UpdateDraft merges partial fields into a draft. The round gate must permit
// editing; media references are validated against the catalog and budgets
// must stay within the promotion mix.
func (s *DecisionService) UpdateDraft(gate Gate, teamID, roundID int, productID string, fields models.DecisionFields) (*models.ProductDecision, error) {
	if !gate.Editable {
		return nil, utils.ErrRoundNotEditable
	}
	if err := s.ensureSession(teamID, roundID); err != nil {
		return nil, err
	}

	validMedia, err := s.validMediaSet()
	if err != nil {
		return nil, err
	}
	if fields.PromotionMix != nil {
		for _, id := range *fields.PromotionMix {
			if !validMedia[id] {
				return nil, utils.ErrUnknownMedia
			}
		}
	}
	if fields.Budgets != nil {
		mix := fields.PromotionMix
		if mix == nil {
			current := s.store.Get(teamID, roundID, productID)
			m := []string(current.PromotionMix)
			mix = &m
		}
		inMix := make(map[string]bool, len(*mix))
		for _, id := range *mix {
			inMix[id] = true
		}
		for id := range *fields.Budgets {
			if !inMix[id] {
				return nil, utils.ErrBudgetOutsideMix
			}
		}
	}

	return s.store.Update(teamID, roundID, productID, fields)
}

// Drafts returns the unsubmitted records of the session.
func (s *DecisionService) Drafts(teamID, roundID int) []models.ProductDecision {
	return s.store.Drafts(teamID, roundID)
}

// Apply overwrites the session record with a persisted one.
func (s *DecisionService) Apply(record *models.ProductDecision) {
	s.store.Apply(record)
}

// ensureSession hydrates the in-memory session on first touch.
func (s *DecisionService) ensureSession(teamID, roundID int) error {
	if s.store.Hydrated(teamID, roundID) {
		return nil
	}

	productIDs, err := s.productRepo.GetActiveIDs()
	if err != nil {
		return err
	}
	records, err := s.decisionRepo.GetByTeamRound(teamID, roundID)
	if err != nil {
		return err
	}
	validMedia, err := s.validMediaSet()
	if err != nil {
		return err
	}

	s.store.Hydrate(teamID, roundID, productIDs, records, validMedia)
	return nil
}

func (s *DecisionService) validMediaSet() (map[string]bool, error) {
	ids, err := s.mediaRepo.GetActiveIDs()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
