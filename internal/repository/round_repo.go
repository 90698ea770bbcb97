package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// RoundRepository handles data access for rounds. Round lifecycle
// transitions happen outside this service; everything here is read-only.
type RoundRepository struct {
	db *sqlx.DB
}

// NewRoundRepository creates a new RoundRepository.
func NewRoundRepository(db *sqlx.DB) *RoundRepository {
	return &RoundRepository{db: db}
}

// GetByID returns a single round by id.
func (r *RoundRepository) GetByID(id int) (*models.Round, error) {
	const q = `SELECT * FROM rounds WHERE id = $1 LIMIT 1`
	var round models.Round
	if err := r.db.Get(&round, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &round, nil
}

// GetActiveByClass returns the currently active round of a class, or
// sql.ErrNoRows when no round is active.
func (r *RoundRepository) GetActiveByClass(classID int) (*models.Round, error) {
	const q = `SELECT * FROM rounds WHERE class_id = $1 AND status = 'active' ORDER BY number DESC LIMIT 1`
	var round models.Round
	if err := r.db.Get(&round, q, classID); err != nil {
		return nil, err
	}
	return &round, nil
}

// GetGradableByClass returns the completed, graded rounds of a class in
// play order. Round 1 is the ungraded practice round.
func (r *RoundRepository) GetGradableByClass(classID int) ([]models.Round, error) {
	const q = `SELECT * FROM rounds WHERE class_id = $1 AND status = 'completed' AND number > 1 ORDER BY number`
	var rounds []models.Round
	if err := r.db.Select(&rounds, q, classID); err != nil {
		return nil, err
	}
	return rounds, nil
}

// GetCompletedWithoutResults returns completed rounds that have no imported
// team results yet. Used by the result sync worker.
func (r *RoundRepository) GetCompletedWithoutResults() ([]models.Round, error) {
	const q = `
        SELECT r.* FROM rounds r
        WHERE r.status = 'completed'
        AND NOT EXISTS (SELECT 1 FROM team_results tr WHERE tr.round_id = r.id)
        ORDER BY r.id`
	var rounds []models.Round
	if err := r.db.Select(&rounds, q); err != nil {
		return nil, err
	}
	return rounds, nil
}

// GetCompleted returns all completed rounds. Used by the grade warm worker.
func (r *RoundRepository) GetCompleted() ([]models.Round, error) {
	const q = `SELECT * FROM rounds WHERE status = 'completed' ORDER BY id`
	var rounds []models.Round
	if err := r.db.Select(&rounds, q); err != nil {
		return nil, err
	}
	return rounds, nil
}
