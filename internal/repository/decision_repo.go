package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/StratSim/stratsim_api/internal/models"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// DecisionRepository persists product decisions. It is the authoritative
// source for submission state: a decision with submitted_at set is frozen,
// and the immutability guard lives in SQL so no code path can overwrite a
// submitted record.
type DecisionRepository struct {
	db *sqlx.DB
}

// NewDecisionRepository creates a new DecisionRepository.
func NewDecisionRepository(db *sqlx.DB) *DecisionRepository {
	return &DecisionRepository{db: db}
}

// GetByTeamRound returns all persisted decisions for a team/round.
func (r *DecisionRepository) GetByTeamRound(teamID, roundID int) ([]models.ProductDecision, error) {
	const q = `SELECT * FROM decisions WHERE team_id = $1 AND round_id = $2 ORDER BY product_id`
	var decisions []models.ProductDecision
	if err := r.db.Select(&decisions, q, teamID, roundID); err != nil {
		return nil, err
	}
	return decisions, nil
}

// GetByProduct returns a single decision, or sql.ErrNoRows when the team has
// never saved that product.
func (r *DecisionRepository) GetByProduct(teamID, roundID int, productID string) (*models.ProductDecision, error) {
	const q = `SELECT * FROM decisions WHERE team_id = $1 AND round_id = $2 AND product_id = $3 LIMIT 1`
	var d models.ProductDecision
	if err := r.db.Get(&d, q, teamID, roundID, productID); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &d, nil
}

// SaveDecision upserts the field values of a decision. With final=false this
// is a draft flush and never touches submitted_at; with final=true it also
// stamps submitted_at, freezing the record. Either way the write is refused
// with ErrInvalidState when the stored record is already submitted.
func (r *DecisionRepository) SaveDecision(ctx context.Context, d *models.ProductDecision, final bool) (*models.ProductDecision, error) {
	const q = `
        INSERT INTO decisions (team_id, round_id, product_id, quality, features, positioning,
                               price_strategy, unit_price, channels, coverage, promotion_mix, budgets,
                               submitted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
                CASE WHEN $13 THEN NOW() ELSE NULL END)
        ON CONFLICT (team_id, round_id, product_id) DO UPDATE SET
            quality = EXCLUDED.quality,
            features = EXCLUDED.features,
            positioning = EXCLUDED.positioning,
            price_strategy = EXCLUDED.price_strategy,
            unit_price = EXCLUDED.unit_price,
            channels = EXCLUDED.channels,
            coverage = EXCLUDED.coverage,
            promotion_mix = EXCLUDED.promotion_mix,
            budgets = EXCLUDED.budgets,
            submitted_at = CASE WHEN $13 THEN NOW() ELSE decisions.submitted_at END,
            updated_at = NOW()
        WHERE decisions.submitted_at IS NULL
        RETURNING *`

	channels := d.Channels
	if channels == nil {
		channels = pq.StringArray{}
	}
	mix := d.PromotionMix
	if mix == nil {
		mix = pq.StringArray{}
	}

	var saved models.ProductDecision
	err := r.db.QueryRowxContext(ctx, q,
		d.TeamID, d.RoundID, d.ProductID,
		d.Quality, d.Features, d.Positioning,
		d.PriceStrategy, d.UnitPrice, channels, d.Coverage, mix, d.Budgets,
		final,
	).StructScan(&saved)
	if err == sql.ErrNoRows {
		// The guard filtered the update: the stored record is submitted.
		return nil, utils.ErrInvalidState
	}
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// ResetSubmission clears the submission stamps of a team's decisions for a
// round, unfreezing them. Instructor-only escape hatch.
func (r *DecisionRepository) ResetSubmission(teamID, roundID int) (int, error) {
	const q = `UPDATE decisions SET submitted_at = NULL, updated_at = NOW()
	          WHERE team_id = $1 AND round_id = $2 AND submitted_at IS NOT NULL`
	res, err := r.db.Exec(q, teamID, roundID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// CountDrafts returns how many of the team's persisted decisions are still
// unsubmitted for the round.
func (r *DecisionRepository) CountDrafts(teamID, roundID int) (int, error) {
	const q = `SELECT COUNT(1) FROM decisions WHERE team_id = $1 AND round_id = $2 AND submitted_at IS NULL`
	var n int
	if err := r.db.Get(&n, q, teamID, roundID); err != nil {
		return 0, err
	}
	return n, nil
}
