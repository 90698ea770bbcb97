package service

import (
	"github.com/rs/zerolog/log"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// AdminService covers the instructor-side management operations: team
// provisioning, key rotation, and the submission reset escape hatch.
type AdminService struct {
	teamRepo     *repository.TeamRepository
	decisionRepo *repository.DecisionRepository
	store        *DecisionStore
}

// NewAdminService constructs an AdminService.
func NewAdminService(teamRepo *repository.TeamRepository, decisionRepo *repository.DecisionRepository, store *DecisionStore) *AdminService {
	return &AdminService{
		teamRepo:     teamRepo,
		decisionRepo: decisionRepo,
		store:        store,
	}
}

// CreateTeam provisions a team with a fresh API key. The plaintext key is
// returned once, here, and handed to the students out of band.
func (s *AdminService) CreateTeam(classID int, name string) (*models.Team, error) {
	key, err := utils.GenerateTeamKey()
	if err != nil {
		return nil, err
	}

	team := &models.Team{
		ClassID:  classID,
		Name:     name,
		APIKey:   key,
		IsActive: true,
	}
	if err := s.teamRepo.Create(team); err != nil {
		return nil, err
	}

	log.Info().Int("team_id", team.ID).Int("class_id", classID).Msg("Team created")
	return team, nil
}

// RotateTeamKey replaces a team's API key and returns the new plaintext key.
func (s *AdminService) RotateTeamKey(teamID int) (string, error) {
	key, err := utils.GenerateTeamKey()
	if err != nil {
		return "", err
	}
	if err := s.teamRepo.UpdateAPIKey(teamID, key); err != nil {
		return "", err
	}

	log.Info().Int("team_id", teamID).Msg("Team key rotated")
	return key, nil
}

// ListTeams returns the teams of a class.
func (s *AdminService) ListTeams(classID int) ([]models.Team, error) {
	return s.teamRepo.GetByClass(classID)
}

// ResetSubmission unfreezes a team's submitted decisions for a round and
// drops the in-memory session so the next read re-hydrates from the
// database. Returns how many decisions were unfrozen.
func (s *AdminService) ResetSubmission(teamID, roundID int) (int, error) {
	n, err := s.decisionRepo.ResetSubmission(teamID, roundID)
	if err != nil {
		return 0, err
	}
	s.store.Forget(teamID, roundID)

	log.Warn().
		Int("team_id", teamID).
		Int("round_id", roundID).
		Int("decisions", n).
		Msg("Submission reset by instructor")
	return n, nil
}
