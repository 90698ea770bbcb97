package simengine

// ResultsRequest asks the engine for the computed results of one round.
type ResultsRequest struct {
	APIKey  string `json:"api_key"`
	RoundID int    `json:"round_id"`
	Sign    string `json:"sign"`
}

// StatusRequest asks the engine for its processing status.
type StatusRequest struct {
	APIKey string `json:"api_key"`
	Sign   string `json:"sign"`
}
