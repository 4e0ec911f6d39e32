package challenge

import (
	"context"

	domain "weighin/internal/domain/challenge"
)

// Store defines the persistence interface for the challenge configuration.
// The configuration is a singleton; Get returns the defaults when no row
// has been saved yet.
type Store interface {
	Get(ctx context.Context) (domain.Config, error)
	Save(ctx context.Context, cfg domain.Config) error
}
