package inspection

import "time"

// InspectionID identifier type
type InspectionID string

// Status enum for a single part finding
type Status string

const (
	StatusGood       Status = "GOOD"
	StatusDamaged    Status = "DAMAGED"
	StatusNotVisible Status = "NOT_VISIBLE"
)

// Severity enum for a damaged part
type Severity string

const (
	SeverityNone     Severity = "NONE"
	SeverityMinor    Severity = "MINOR"
	SeverityModerate Severity = "MODERATE"
	SeveritySevere   Severity = "SEVERE"
)

// Part is one per-part finding inside an inspection. Severity, evidence and
// confidence are only set when the model actually reported the part.
type Part struct {
	Code           PartCode `json:"code"`
	Name           string   `json:"name"`
	Status         Status   `json:"status"`
	Severity       Severity `json:"severity,omitempty"`
	VisualEvidence string   `json:"visual_evidence,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
}

// Aggregate Root: Inspection, one analysis run. Records are immutable once
// written; a re-analysis supersedes the previous demo record via upsert,
// while user-owned records accumulate.
type Inspection struct {
	ID           InspectionID `json:"id"`
	CreatedAt    time.Time    `json:"created_at"`
	VehicleURL   string       `json:"vehicle_url"`
	VehicleName  string       `json:"vehicle_name,omitempty"`
	VIN          string       `json:"vin,omitempty"`
	ThumbnailURL string       `json:"thumbnail_url,omitempty"`
	ImageURLs    []string     `json:"image_urls"`
	HealthScore  int          `json:"health_score"`
	Parts        []Part       `json:"inspection_data"`
	// UserID is empty for demo records.
	UserID string `json:"user_id,omitempty"`
	IsDemo bool   `json:"is_demo"`
}

// Feedback is a per-part reviewer annotation, upserted on
// (inspection_id, part_code, user_id).
type Feedback struct {
	InspectionID InspectionID `json:"inspection_id"`
	PartCode     PartCode     `json:"part_code"`
	UserID       string       `json:"user_id"`
	Rating       bool         `json:"rating"`
	Comment      string       `json:"comment,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
