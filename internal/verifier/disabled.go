package verifier

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no verifier URL is set.
var ErrNotConfigured = errors.New("cleanup verifier not configured")

// Disabled is a CleanupVerifier that always fails. It stands in when no
// verifier URL is configured so waste submissions degrade to a generic
// rejection instead of a nil dereference.
type Disabled struct{}

func (Disabled) Verify(ctx context.Context, before, after []byte) (*Verdict, error) {
	return nil, ErrNotConfigured
}
