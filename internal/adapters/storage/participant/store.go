package participant

import (
	"context"

	domain "weighin/internal/domain/participant"
)

// Store persists Participant state.
type Store interface {
	GetByID(ctx context.Context, id int64) (domain.Participant, error)
	Save(ctx context.Context, value domain.Participant) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	List(ctx context.Context, filter ListFilter) ([]domain.Participant, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Status string
}
