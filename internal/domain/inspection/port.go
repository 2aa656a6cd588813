package inspection

import "context"

// Repository port over the two storage partitions. Both partitions share the
// Inspection shape; demo records are keyed uniquely by vehicle_url while
// user-owned records accumulate per analysis.
type Repository interface {
	// InsertUser creates a new user-owned record, no conflict handling.
	InsertUser(ctx context.Context, ins *Inspection) (InspectionID, error)
	// UpsertDemo replaces any previous demo record for the same vehicle_url.
	UpsertDemo(ctx context.Context, ins *Inspection) (InspectionID, error)

	DemoHistory(ctx context.Context, limit int) ([]*Inspection, error)
	UserHistory(ctx context.Context, userID string, limit int) ([]*Inspection, error)
	GetDemo(ctx context.Context, id InspectionID) (*Inspection, error)
	GetUser(ctx context.Context, userID string, id InspectionID) (*Inspection, error)

	// SaveFeedback upserts on (inspection_id, part_code, user_id).
	SaveFeedback(ctx context.Context, fb *Feedback) error
}

// ImageLister port for the external scraping collaborator: given a listing
// page URL, return candidate image URLs. An empty list is not an error.
type ImageLister interface {
	Images(ctx context.Context, listingURL string) ([]string, error)
}

// Image is one downloaded photo, ready for a multimodal prompt.
type Image struct {
	SourceURL string
	MimeType  string
	Base64    string
	Raw       []byte
}

// ImageFetcher port for downloading listing photos. FetchAll tolerates
// individual failures and preserves input order in its output.
type ImageFetcher interface {
	FetchAll(ctx context.Context, urls []string) []*Image
}

// ImageArchiver port for the optional evidence mirror. Best effort only.
type ImageArchiver interface {
	Archive(ctx context.Context, key string, img *Image) (string, error)
}
