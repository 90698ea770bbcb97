package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// ResultRepository persists the raw round results imported from the
// simulation engine. Results are written once per round and read-only after.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// GetByRound returns the full cohort result set for a round.
func (r *ResultRepository) GetByRound(roundID int) ([]models.TeamResult, error) {
	const q = `SELECT * FROM team_results WHERE round_id = $1 ORDER BY team_id`
	var results []models.TeamResult
	if err := r.db.Select(&results, q, roundID); err != nil {
		return nil, err
	}
	return results, nil
}

// GetByTeamRound returns one team's result for a round.
func (r *ResultRepository) GetByTeamRound(teamID, roundID int) (*models.TeamResult, error) {
	const q = `SELECT * FROM team_results WHERE team_id = $1 AND round_id = $2 LIMIT 1`
	var res models.TeamResult
	if err := r.db.Get(&res, q, teamID, roundID); err != nil {
		return nil, err
	}
	return &res, nil
}

// Upsert inserts or replaces a team's result for a round. Re-imports after
// an engine re-run overwrite the previous values.
func (r *ResultRepository) Upsert(res *models.TeamResult) error {
	const q = `
        INSERT INTO team_results (team_id, round_id, revenue, profit, roi, market_share, nps, margin, alignment_score)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (team_id, round_id) DO UPDATE SET
            revenue = EXCLUDED.revenue,
            profit = EXCLUDED.profit,
            roi = EXCLUDED.roi,
            market_share = EXCLUDED.market_share,
            nps = EXCLUDED.nps,
            margin = EXCLUDED.margin,
            alignment_score = EXCLUDED.alignment_score,
            imported_at = NOW()`
	_, err := r.db.Exec(q,
		res.TeamID, res.RoundID, res.Revenue, res.Profit, res.ROI,
		res.MarketShare, res.NPS, res.Margin, res.AlignmentScore,
	)
	return err
}
