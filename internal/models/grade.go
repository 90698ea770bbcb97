package models

// MetricScores holds the benchmark-normalized 0-100 score per metric for one
// team within its cohort.
type MetricScores struct {
	Profit      float64 `json:"profit"`
	ROI         float64 `json:"roi"`
	MarketShare float64 `json:"marketShare"`
	NPS         float64 `json:"nps"`
	Margin      float64 `json:"margin"`
}

// RoundGrade is the weighted per-round grade for one team. Derived on
// demand, never persisted.
type RoundGrade struct {
	TeamID         int          `json:"teamId"`
	RoundID        int          `json:"roundId"`
	RoundNumber    int          `json:"roundNumber"`
	Score          int          `json:"score"`
	Metrics        MetricScores `json:"metrics"`
	AlignmentScore *float64     `json:"alignmentScore,omitempty"`
}

// FinalGrade is the mean of a team's per-round grades across gradable
// rounds, rounded to the nearest integer.
type FinalGrade struct {
	TeamID   int          `json:"teamId"`
	TeamName string       `json:"teamName,omitempty"`
	Score    int          `json:"score"`
	Rounds   []RoundGrade `json:"rounds"`
}
