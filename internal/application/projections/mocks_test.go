package projections

import (
	"context"
	"fmt"

	participantStore "weighin/internal/adapters/storage/participant"
	domainChallenge "weighin/internal/domain/challenge"
	domainParticipant "weighin/internal/domain/participant"
	domainWeight "weighin/internal/domain/weight"
)

type mockParticipantStore struct {
	participants []domainParticipant.Participant
}

// GetByID returns the seeded participant with the given ID.
// POST: Returns ErrNotFound when absent
func (m *mockParticipantStore) GetByID(_ context.Context, id int64) (domainParticipant.Participant, error) {
	for _, p := range m.participants {
		if p.ID == id {
			return p, nil
		}
	}
	return domainParticipant.Participant{}, fmt.Errorf("%w: id %d", domainParticipant.ErrNotFound, id)
}

// List returns seeded participants matching the filter, in seed order.
func (m *mockParticipantStore) List(_ context.Context, filter participantStore.ListFilter) ([]domainParticipant.Participant, error) {
	var out []domainParticipant.Participant
	for _, p := range m.participants {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Count returns the number of seeded participants matching the filter.
func (m *mockParticipantStore) Count(ctx context.Context, filter participantStore.ListFilter) (int, error) {
	list, _ := m.List(ctx, filter)
	return len(list), nil
}

type mockWeightStore struct {
	samples []domainWeight.Sample
}

// ListByParticipant returns seeded samples for one participant.
func (m *mockWeightStore) ListByParticipant(_ context.Context, participantID int64) ([]domainWeight.Sample, error) {
	var out []domainWeight.Sample
	for _, s := range m.samples {
		if s.ParticipantID == participantID {
			out = append(out, s)
		}
	}
	return out, nil
}

// ListAll returns every seeded sample.
func (m *mockWeightStore) ListAll(_ context.Context) ([]domainWeight.Sample, error) {
	return m.samples, nil
}

type mockConfigStore struct {
	cfg domainChallenge.Config
}

// Get returns the seeded configuration, defaulting when unset.
func (m *mockConfigStore) Get(_ context.Context) (domainChallenge.Config, error) {
	if m.cfg.DurationDays == 0 {
		return domainChallenge.DefaultConfig(), nil
	}
	return m.cfg, nil
}
