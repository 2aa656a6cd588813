package auth

import "context"

// Verifier checks a bearer credential against the identity collaborator and
// returns the caller's user id. Callers treat any error as "no identity";
// anonymous access is a supported first-class path, not a failure mode.
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}
