package orchestrators

import (
	"context"
	"testing"
	"time"

	domainParticipant "weighin/internal/domain/participant"
)

func recordDeps(ps *mockParticipantStore, ws *mockWeightStore) RecordWeightDeps {
	return RecordWeightDeps{
		ParticipantStore: ps,
		WeightStore:      ws,
		ConfigStore:      &mockConfigStore{},
		Now:              fixedNow,
	}
}

func seededParticipant() domainParticipant.Participant {
	return domainParticipant.Participant{
		ID: 1, Name: "Анна", StartWeight: 80, JoinDate: day(2025, 8, 25), Status: domainParticipant.StatusParticipating,
	}
}

// TestExecuteRecordWeight_UpsertOverwrites verifies the second entry for
// the same day replaces the first.
func TestExecuteRecordWeight_UpsertOverwrites(t *testing.T) {
	ps := newMockParticipantStore(seededParticipant())
	ws := newMockWeightStore()
	deps := recordDeps(ps, ws)

	for _, w := range []float64{79.5, 79.0} {
		if err := ExecuteRecordWeight(context.Background(), RecordWeightInput{
			ParticipantID: 1, Date: day(2025, 8, 27), Weight: w,
		}, deps); err != nil {
			t.Fatalf("ExecuteRecordWeight(%v) failed: %v", w, err)
		}
	}

	if len(ws.samples) != 1 {
		t.Fatalf("got %d samples, want 1", len(ws.samples))
	}
	s, _ := ws.GetByParticipantAndDate(context.Background(), 1, day(2025, 8, 27))
	if s.Weight != 79.0 {
		t.Errorf("weight = %v, want 79.0 (later entry wins)", s.Weight)
	}
}

// TestExecuteRecordWeight_DateBounds verifies entries outside the
// participant's challenge interval are rejected.
func TestExecuteRecordWeight_DateBounds(t *testing.T) {
	ps := newMockParticipantStore(seededParticipant())
	ws := newMockWeightStore()
	deps := recordDeps(ps, ws)

	tests := []struct {
		name string
		date time.Time
		ok   bool
	}{
		{"before join", day(2025, 8, 24), false},
		{"join date", day(2025, 8, 25), true},
		{"last day", day(2025, 9, 7), true},
		{"day after end", day(2025, 9, 9), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExecuteRecordWeight(context.Background(), RecordWeightInput{
				ParticipantID: 1, Date: tt.date, Weight: 78,
			}, deps)
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestExecuteRecordWeight_RejectsNonPositive verifies weight validation.
func TestExecuteRecordWeight_RejectsNonPositive(t *testing.T) {
	ps := newMockParticipantStore(seededParticipant())
	ws := newMockWeightStore()
	deps := recordDeps(ps, ws)

	for _, w := range []float64{0, -5} {
		if err := ExecuteRecordWeight(context.Background(), RecordWeightInput{
			ParticipantID: 1, Date: day(2025, 8, 27), Weight: w,
		}, deps); err == nil {
			t.Errorf("weight %v should be rejected", w)
		}
	}
}

// TestExecuteRecordFinalWeight_PinnedToLastDay verifies the final weigh-in
// lands on the last challenge day with the 17:00 annotation.
func TestExecuteRecordFinalWeight_PinnedToLastDay(t *testing.T) {
	ps := newMockParticipantStore(seededParticipant())
	ws := newMockWeightStore()

	err := ExecuteRecordFinalWeight(context.Background(), RecordFinalWeightInput{
		ParticipantID: 1, Weight: 75.5,
	}, recordDeps(ps, ws))
	if err != nil {
		t.Fatalf("ExecuteRecordFinalWeight failed: %v", err)
	}

	// Join 2025-08-25 with a 14-day duration puts day 14 on 2025-09-07.
	s, err := ws.GetByParticipantAndDate(context.Background(), 1, day(2025, 9, 7))
	if err != nil {
		t.Fatalf("final sample missing: %v", err)
	}
	if s.Weight != 75.5 {
		t.Errorf("final weight = %v, want 75.5", s.Weight)
	}
	want := time.Date(2025, 9, 7, 17, 0, 0, 0, time.UTC)
	if !s.RecordedAt.Equal(want) {
		t.Errorf("RecordedAt = %v, want %v", s.RecordedAt, want)
	}
}

// TestExecuteSetStartWeight_KeepsStatus verifies a late starting weight
// never flips a planned participant to participating by itself.
func TestExecuteSetStartWeight_KeepsStatus(t *testing.T) {
	ps := newMockParticipantStore(domainParticipant.Participant{
		ID: 2, Name: "Вера", StartWeight: 0, JoinDate: day(2025, 8, 26), Status: domainParticipant.StatusPlanned,
	})
	ws := newMockWeightStore()

	err := ExecuteSetStartWeight(context.Background(), SetStartWeightInput{
		ParticipantID: 2, Weight: 70,
	}, recordDeps(ps, ws))
	if err != nil {
		t.Fatalf("ExecuteSetStartWeight failed: %v", err)
	}

	p := ps.participants[2]
	if p.StartWeight != 70 {
		t.Errorf("start weight = %v, want 70", p.StartWeight)
	}
	if p.Status != domainParticipant.StatusPlanned {
		t.Errorf("status = %q, want planned (no automatic transition)", p.Status)
	}
	if _, err := ws.GetByParticipantAndDate(context.Background(), 2, day(2025, 8, 26)); err != nil {
		t.Errorf("day-one sample missing: %v", err)
	}
}
