package service

import (
	"database/sql"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// AuthService provides methods for authenticating teams.
type AuthService struct {
	teamRepo *repository.TeamRepository
}

// NewAuthService constructs a new AuthService.
func NewAuthService(teamRepo *repository.TeamRepository) *AuthService {
	return &AuthService{teamRepo: teamRepo}
}

// ValidateAPIKey verifies the provided team key and returns the owning team.
func (s *AuthService) ValidateAPIKey(token string) (*models.Team, error) {
	if token == "" {
		return nil, utils.ErrInvalidToken
	}

	team, err := s.teamRepo.GetByAPIKey(token)
	if err == sql.ErrNoRows {
		return nil, utils.ErrInvalidToken
	} else if err != nil {
		return nil, err
	}

	if !team.IsActive {
		return nil, utils.ErrInvalidTeam
	}
	return team, nil
}
