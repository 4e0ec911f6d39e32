package projections

import (
	"context"

	participantStore "weighin/internal/adapters/storage/participant"
	domainChallenge "weighin/internal/domain/challenge"
	domainParticipant "weighin/internal/domain/participant"
	domainWeight "weighin/internal/domain/weight"
)

// ParticipantStore interface for participant queries.
type ParticipantStore interface {
	GetByID(ctx context.Context, id int64) (domainParticipant.Participant, error)
	List(ctx context.Context, filter participantStore.ListFilter) ([]domainParticipant.Participant, error)
	Count(ctx context.Context, filter participantStore.ListFilter) (int, error)
}

// WeightStore interface for weight sample queries.
type WeightStore interface {
	ListByParticipant(ctx context.Context, participantID int64) ([]domainWeight.Sample, error)
	ListAll(ctx context.Context) ([]domainWeight.Sample, error)
}

// ConfigStore interface for challenge configuration queries.
type ConfigStore interface {
	Get(ctx context.Context) (domainChallenge.Config, error)
}
