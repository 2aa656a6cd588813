package auditerrors

import "context"

// Repository defines persistence for analysis errors. Writes are best effort;
// a failed audit write never fails the request that triggered it.
type Repository interface {
	Save(ctx context.Context, e *AnalysisError) error
	ListByURL(ctx context.Context, vehicleURL string, limit int) ([]*AnalysisError, error)
}
