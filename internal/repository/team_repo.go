package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// TeamRepository handles data access for teams.
type TeamRepository struct {
	db *sqlx.DB
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetByAPIKey returns the team owning the given API key.
func (r *TeamRepository) GetByAPIKey(apiKey string) (*models.Team, error) {
	const q = `SELECT * FROM teams WHERE api_key = $1 LIMIT 1`
	var t models.Team
	if err := r.db.Get(&t, q, apiKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &t, nil
}

// GetByID returns a single team by id.
func (r *TeamRepository) GetByID(id int) (*models.Team, error) {
	const q = `SELECT * FROM teams WHERE id = $1 LIMIT 1`
	var t models.Team
	if err := r.db.Get(&t, q, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByClass returns all active teams of a class, the grading cohort.
func (r *TeamRepository) GetByClass(classID int) ([]models.Team, error) {
	const q = `SELECT * FROM teams WHERE class_id = $1 AND is_active = true ORDER BY name`
	var teams []models.Team
	if err := r.db.Select(&teams, q, classID); err != nil {
		return nil, err
	}
	return teams, nil
}

// Create inserts a new team.
func (r *TeamRepository) Create(t *models.Team) error {
	const q = `INSERT INTO teams (class_id, name, api_key, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, t.ClassID, t.Name, t.APIKey, t.IsActive).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// UpdateAPIKey replaces a team's key. The old key stops working immediately.
func (r *TeamRepository) UpdateAPIKey(teamID int, apiKey string) error {
	const q = `UPDATE teams SET api_key = $2, updated_at = NOW() WHERE id = $1`
	res, err := r.db.Exec(q, teamID, apiKey)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
