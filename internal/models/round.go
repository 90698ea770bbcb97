package models

import "time"

type RoundState string

const (
	RoundDraft     RoundState = "draft"
	RoundActive    RoundState = "active"
	RoundCompleted RoundState = "completed"
)

// Round is one decision period for a class. Rounds are created and
// transitioned by the course-administration system; this service only reads
// their state.
type Round struct {
	ID        int        `db:"id" json:"id"`
	ClassID   int        `db:"class_id" json:"-"`
	Number    int        `db:"number" json:"number"`
	Status    RoundState `db:"status" json:"status"`
	StartsAt  *time.Time `db:"starts_at" json:"startsAt,omitempty"`
	EndsAt    *time.Time `db:"ends_at" json:"endsAt,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"-"`
}

// Gradable reports whether the round counts toward the final grade. The
// first round is a practice round and is never graded.
func (r *Round) Gradable() bool {
	return r != nil && r.Number > 1 && r.Status == RoundCompleted
}
