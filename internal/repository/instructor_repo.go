package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// InstructorRepository handles data access for instructor accounts.
type InstructorRepository struct {
	db *sqlx.DB
}

// NewInstructorRepository creates a new InstructorRepository.
func NewInstructorRepository(db *sqlx.DB) *InstructorRepository {
	return &InstructorRepository{db: db}
}

// GetByEmail returns the instructor with the given email.
func (r *InstructorRepository) GetByEmail(email string) (*models.InstructorUser, error) {
	const q = `SELECT * FROM instructor_users WHERE email = $1 LIMIT 1`
	var u models.InstructorUser
	if err := r.db.Get(&u, q, email); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new instructor account.
func (r *InstructorRepository) Create(u *models.InstructorUser) error {
	const q = `INSERT INTO instructor_users (email, password_hash, name, is_active)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, u.Email, u.PasswordHash, u.Name, u.IsActive).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}
