package orchestrators

import (
	"context"
	"fmt"
	"sort"
	"time"

	participantStore "weighin/internal/adapters/storage/participant"
	domainChallenge "weighin/internal/domain/challenge"
	domainParticipant "weighin/internal/domain/participant"
	domainWeight "weighin/internal/domain/weight"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedNow() time.Time {
	return time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
}

type mockParticipantStore struct {
	participants map[int64]domainParticipant.Participant
	deletedAll   bool
}

func newMockParticipantStore(seed ...domainParticipant.Participant) *mockParticipantStore {
	m := &mockParticipantStore{participants: make(map[int64]domainParticipant.Participant)}
	for _, p := range seed {
		m.participants[p.ID] = p
	}
	return m
}

// Save stores the participant keyed by ID.
func (m *mockParticipantStore) Save(_ context.Context, p domainParticipant.Participant) error {
	m.participants[p.ID] = p
	return nil
}

// GetByID returns the seeded participant or ErrNotFound.
func (m *mockParticipantStore) GetByID(_ context.Context, id int64) (domainParticipant.Participant, error) {
	p, ok := m.participants[id]
	if !ok {
		return domainParticipant.Participant{}, fmt.Errorf("%w: id %d", domainParticipant.ErrNotFound, id)
	}
	return p, nil
}

// Delete removes the participant.
func (m *mockParticipantStore) Delete(_ context.Context, id int64) error {
	delete(m.participants, id)
	return nil
}

// DeleteAll removes every participant.
func (m *mockParticipantStore) DeleteAll(_ context.Context) error {
	m.participants = make(map[int64]domainParticipant.Participant)
	m.deletedAll = true
	return nil
}

// List returns participants matching the filter in ID order.
func (m *mockParticipantStore) List(_ context.Context, filter participantStore.ListFilter) ([]domainParticipant.Participant, error) {
	var out []domainParticipant.Participant
	for _, p := range m.participants {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Count returns the number of participants matching the filter.
func (m *mockParticipantStore) Count(ctx context.Context, filter participantStore.ListFilter) (int, error) {
	list, _ := m.List(ctx, filter)
	return len(list), nil
}

type mockWeightStore struct {
	samples    map[string]domainWeight.Sample // keyed by "<id>/<date>"
	deletedAll bool
}

func newMockWeightStore() *mockWeightStore {
	return &mockWeightStore{samples: make(map[string]domainWeight.Sample)}
}

func sampleKey(participantID int64, date time.Time) string {
	return fmt.Sprintf("%d/%s", participantID, domainWeight.DateOf(date).Format("2006-01-02"))
}

// Upsert stores the sample keyed by participant and civil date.
func (m *mockWeightStore) Upsert(_ context.Context, s domainWeight.Sample) error {
	m.samples[sampleKey(s.ParticipantID, s.Date)] = s
	return nil
}

// GetByParticipantAndDate returns the exact-date sample or an error.
func (m *mockWeightStore) GetByParticipantAndDate(_ context.Context, participantID int64, date time.Time) (domainWeight.Sample, error) {
	s, ok := m.samples[sampleKey(participantID, date)]
	if !ok {
		return domainWeight.Sample{}, fmt.Errorf("sample not found")
	}
	return s, nil
}

// DeleteByParticipant removes all samples for one participant.
func (m *mockWeightStore) DeleteByParticipant(_ context.Context, participantID int64) error {
	for k, s := range m.samples {
		if s.ParticipantID == participantID {
			delete(m.samples, k)
		}
	}
	return nil
}

// DeleteByParticipantAndDate removes one sample.
func (m *mockWeightStore) DeleteByParticipantAndDate(_ context.Context, participantID int64, date time.Time) error {
	delete(m.samples, sampleKey(participantID, date))
	return nil
}

// DeleteAll removes every sample.
func (m *mockWeightStore) DeleteAll(_ context.Context) error {
	m.samples = make(map[string]domainWeight.Sample)
	m.deletedAll = true
	return nil
}

// ListByParticipant returns one participant's samples in date order.
func (m *mockWeightStore) ListByParticipant(_ context.Context, participantID int64) ([]domainWeight.Sample, error) {
	var out []domainWeight.Sample
	for _, s := range m.samples {
		if s.ParticipantID == participantID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// ListAll returns every sample grouped by participant in date order.
func (m *mockWeightStore) ListAll(_ context.Context) ([]domainWeight.Sample, error) {
	var out []domainWeight.Sample
	for _, s := range m.samples {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ParticipantID != out[j].ParticipantID {
			return out[i].ParticipantID < out[j].ParticipantID
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

type mockConfigStore struct {
	cfg   domainChallenge.Config
	saved *domainChallenge.Config
}

// Get returns the seeded configuration, defaulting when unset.
func (m *mockConfigStore) Get(_ context.Context) (domainChallenge.Config, error) {
	if m.cfg.DurationDays == 0 {
		return domainChallenge.DefaultConfig(), nil
	}
	return m.cfg, nil
}

// Save records the last saved configuration.
func (m *mockConfigStore) Save(_ context.Context, cfg domainChallenge.Config) error {
	m.cfg = cfg
	m.saved = &cfg
	return nil
}
