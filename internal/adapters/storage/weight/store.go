package weight

import (
	"context"
	"time"

	domain "weighin/internal/domain/weight"
)

// Store defines the persistence interface for weight samples.
type Store interface {
	// Upsert writes a sample, overwriting any existing sample for the
	// same participant and civil date.
	Upsert(ctx context.Context, sample domain.Sample) error
	// GetByParticipantAndDate returns the sample for an exact civil date.
	GetByParticipantAndDate(ctx context.Context, participantID int64, date time.Time) (domain.Sample, error)
	// ListByParticipant returns a participant's samples ascending by date.
	ListByParticipant(ctx context.Context, participantID int64) ([]domain.Sample, error)
	// ListAll returns every sample, grouped by participant, ascending by date.
	ListAll(ctx context.Context) ([]domain.Sample, error)
	// DeleteByParticipant removes all samples for a participant.
	DeleteByParticipant(ctx context.Context, participantID int64) error
	// DeleteByParticipantAndDate removes a single sample.
	DeleteByParticipantAndDate(ctx context.Context, participantID int64, date time.Time) error
	// DeleteAll removes every sample. Used by the admin full reset.
	DeleteAll(ctx context.Context) error
}
