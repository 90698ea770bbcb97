package models

import "time"

// TeamResult holds the raw metrics the simulation engine produced for one
// team in one completed round. Records are imported by the result sync and
// read-only afterwards.
type TeamResult struct {
	ID             int        `db:"id" json:"-"`
	TeamID         int        `db:"team_id" json:"teamId"`
	RoundID        int        `db:"round_id" json:"roundId"`
	Revenue        float64    `db:"revenue" json:"revenue"`
	Profit         float64    `db:"profit" json:"profit"`
	ROI            float64    `db:"roi" json:"roi"`
	MarketShare    float64    `db:"market_share" json:"marketShare"`
	NPS            float64    `db:"nps" json:"nps"`
	Margin         float64    `db:"margin" json:"margin"`
	AlignmentScore *float64   `db:"alignment_score" json:"alignmentScore,omitempty"`
	ImportedAt     time.Time  `db:"imported_at" json:"importedAt"`
}
