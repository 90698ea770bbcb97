package models

import "time"

// MediaChannel is one entry of the promotion media catalog. Decisions may
// only reference active media ids; hydration drops anything else.
type MediaChannel struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
