package models

import "time"

// Class groups teams that compete against each other. Teams in the same
// class form the grading cohort for every round of that class.
type Class struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Team is a student group. API access is authenticated with the team key.
type Team struct {
	ID        int       `db:"id" json:"-"`
	ClassID   int       `db:"class_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	APIKey    string    `db:"api_key" json:"-"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
