package service

import (
	"strings"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/repository"
)

// Completion reports per-artifact completeness of a strategic toolset.
// AllComplete gates decision submission.
type Completion struct {
	SWOT        bool `json:"swot"`
	Porter      bool `json:"porter"`
	BCG         bool `json:"bcg"`
	PESTEL      bool `json:"pestel"`
	AllComplete bool `json:"allComplete"`
}

// StrategyService manages the strategic-analysis artifacts and evaluates
// their completeness.
type StrategyService struct {
	strategyRepo *repository.StrategyRepository
}

// NewStrategyService constructs a StrategyService.
func NewStrategyService(strategyRepo *repository.StrategyRepository) *StrategyService {
	return &StrategyService{strategyRepo: strategyRepo}
}

// EvaluateCompletion applies the fixed per-artifact completeness rules. A
// nil toolset is simply incomplete, never an error.
//   - SWOT: at least one of the four lists is non-empty.
//   - Porter: at least one of the five notes is non-blank. Scores alone do
//     not count.
//   - BCG: at least one classification.
//   - PESTEL: at least one of the six lists is non-empty.
func EvaluateCompletion(tools *models.StrategicToolSet) Completion {
	if tools == nil {
		return Completion{}
	}

	c := Completion{
		SWOT: anyNonEmpty(tools.SWOT.Strengths, tools.SWOT.Weaknesses, tools.SWOT.Opportunities, tools.SWOT.Threats),
		BCG:  len(tools.BCG) > 0,
	}

	for _, force := range tools.Porter.Forces() {
		if strings.TrimSpace(force.Notes) != "" {
			c.Porter = true
			break
		}
	}

	c.PESTEL = anyNonEmpty(tools.PESTEL.Lists()...)

	c.AllComplete = c.SWOT && c.Porter && c.BCG && c.PESTEL
	return c
}

func anyNonEmpty(lists ...[]string) bool {
	for _, l := range lists {
		if len(l) > 0 {
			return true
		}
	}
	return false
}

// Get returns the team's toolset (possibly nil) and its completion flags.
func (s *StrategyService) Get(teamID, roundID int) (*models.StrategicToolSet, Completion, error) {
	tools, err := s.strategyRepo.GetByTeamRound(teamID, roundID)
	if err != nil {
		return nil, Completion{}, err
	}
	return tools, EvaluateCompletion(tools), nil
}

// AllComplete reports whether every artifact is complete for the team/round.
func (s *StrategyService) AllComplete(teamID, roundID int) (bool, error) {
	_, completion, err := s.Get(teamID, roundID)
	if err != nil {
		return false, err
	}
	return completion.AllComplete, nil
}

// SaveSWOT persists the SWOT artifact.
func (s *StrategyService) SaveSWOT(teamID, roundID int, swot models.SWOTAnalysis) error {
	return s.strategyRepo.SaveSWOT(teamID, roundID, swot)
}

// SavePorter persists the Porter artifact.
func (s *StrategyService) SavePorter(teamID, roundID int, porter models.PorterAnalysis) error {
	return s.strategyRepo.SavePorter(teamID, roundID, porter)
}

// SaveBCG persists the BCG artifact.
func (s *StrategyService) SaveBCG(teamID, roundID int, bcg models.BCGMatrix) error {
	return s.strategyRepo.SaveBCG(teamID, roundID, bcg)
}

// SavePESTEL persists the PESTEL artifact.
func (s *StrategyService) SavePESTEL(teamID, roundID int, pestel models.PESTELAnalysis) error {
	return s.strategyRepo.SavePESTEL(teamID, roundID, pestel)
}
