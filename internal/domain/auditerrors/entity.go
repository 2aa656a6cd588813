package auditerrors

import "time"

// AnalysisError is a persisted record of one fatal analysis failure, kept for
// debugging scrape and gateway regressions.
type AnalysisError struct {
	ID          int64     `json:"id"`
	VehicleURL  string    `json:"vehicle_url"`
	UserID      string    `json:"user_id,omitempty"`
	Phase       string    `json:"phase"` // validate | scrape | fetch | ai | parse
	Message     string    `json:"message"`
	DetailsJSON string    `json:"details_json,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
