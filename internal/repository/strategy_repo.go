package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// StrategyRepository persists the strategic-analysis artifacts (SWOT,
// Porter, BCG, PESTEL) that gate submission.
type StrategyRepository struct {
	db *sqlx.DB
}

// NewStrategyRepository creates a new StrategyRepository.
func NewStrategyRepository(db *sqlx.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

// GetByTeamRound returns the team's toolset for a round, or nil when the
// team has not started any artifact yet.
func (r *StrategyRepository) GetByTeamRound(teamID, roundID int) (*models.StrategicToolSet, error) {
	const q = `SELECT * FROM strategy_tools WHERE team_id = $1 AND round_id = $2 LIMIT 1`
	var s models.StrategicToolSet
	if err := r.db.Get(&s, q, teamID, roundID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// SaveSWOT upserts the SWOT artifact.
func (r *StrategyRepository) SaveSWOT(teamID, roundID int, swot models.SWOTAnalysis) error {
	return r.saveArtifact(teamID, roundID, "swot", swot)
}

// SavePorter upserts the Porter five-forces artifact.
func (r *StrategyRepository) SavePorter(teamID, roundID int, porter models.PorterAnalysis) error {
	return r.saveArtifact(teamID, roundID, "porter", porter)
}

// SaveBCG upserts the BCG matrix artifact.
func (r *StrategyRepository) SaveBCG(teamID, roundID int, bcg models.BCGMatrix) error {
	return r.saveArtifact(teamID, roundID, "bcg", bcg)
}

// SavePESTEL upserts the PESTEL artifact.
func (r *StrategyRepository) SavePESTEL(teamID, roundID int, pestel models.PESTELAnalysis) error {
	return r.saveArtifact(teamID, roundID, "pestel", pestel)
}

// saveArtifact writes a single jsonb artifact column, creating the toolset
// row on first save. Column names are fixed by the callers above, never
// caller input.
func (r *StrategyRepository) saveArtifact(teamID, roundID int, column string, value interface{}) error {
	q := fmt.Sprintf(`
        INSERT INTO strategy_tools (team_id, round_id, %s)
        VALUES ($1, $2, $3)
        ON CONFLICT (team_id, round_id) DO UPDATE SET
            %s = EXCLUDED.%s,
            updated_at = NOW()`, column, column, column)
	_, err := r.db.Exec(q, teamID, roundID, value)
	return err
}
