package simengine

// ResultEntry is one team's raw metrics for a round as computed by the
// engine. Team references use the engine-side team id, which matches ours.
type ResultEntry struct {
	TeamID         int      `json:"team_id"`
	Revenue        float64  `json:"revenue"`
	Profit         float64  `json:"profit"`
	ROI            float64  `json:"roi"`
	MarketShare    float64  `json:"market_share"`
	NPS            float64  `json:"nps"`
	Margin         float64  `json:"margin"`
	AlignmentScore *float64 `json:"alignment_score,omitempty"`
}

// ResultsResponse wraps the engine's round-results payload.
type ResultsResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message,omitempty"`
	RoundID int           `json:"round_id"`
	Results []ResultEntry `json:"results"`
}

// StatusResponse reports the engine's processing state.
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Engine status values.
const (
	StatusOK         = "ok"
	StatusProcessing = "processing"
	StatusError      = "error"
)
