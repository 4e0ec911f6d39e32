package orchestrators

import (
	"context"
	"errors"
	"testing"

	domainParticipant "weighin/internal/domain/participant"
	domainWeight "weighin/internal/domain/weight"
)

// TestExecuteDeleteParticipant_Cascades verifies the participant and all
// their samples are removed together.
func TestExecuteDeleteParticipant_Cascades(t *testing.T) {
	ps := newMockParticipantStore(
		domainParticipant.Participant{ID: 1, Name: "Анна", StartWeight: 80, JoinDate: day(2025, 8, 25), Status: domainParticipant.StatusParticipating},
		domainParticipant.Participant{ID: 2, Name: "Борис", StartWeight: 90, JoinDate: day(2025, 8, 25), Status: domainParticipant.StatusParticipating},
	)
	ws := newMockWeightStore()
	ws.Upsert(context.Background(), domainWeight.Sample{ParticipantID: 1, Date: day(2025, 8, 25), Weight: 80})
	ws.Upsert(context.Background(), domainWeight.Sample{ParticipantID: 1, Date: day(2025, 8, 26), Weight: 79})
	ws.Upsert(context.Background(), domainWeight.Sample{ParticipantID: 2, Date: day(2025, 8, 25), Weight: 90})

	err := ExecuteDeleteParticipant(context.Background(), DeleteParticipantInput{ID: 1}, DeleteParticipantDeps{
		ParticipantStore: ps,
		WeightStore:      ws,
	})
	if err != nil {
		t.Fatalf("ExecuteDeleteParticipant failed: %v", err)
	}

	if _, ok := ps.participants[1]; ok {
		t.Error("participant 1 still present")
	}
	if _, ok := ps.participants[2]; !ok {
		t.Error("participant 2 should be untouched")
	}
	if len(ws.samples) != 1 {
		t.Errorf("got %d samples, want 1 (only Борис's)", len(ws.samples))
	}
}

// TestExecuteDeleteParticipant_NotFound verifies the not-found error
// surfaces and nothing is deleted.
func TestExecuteDeleteParticipant_NotFound(t *testing.T) {
	ps := newMockParticipantStore()
	ws := newMockWeightStore()

	err := ExecuteDeleteParticipant(context.Background(), DeleteParticipantInput{ID: 5}, DeleteParticipantDeps{
		ParticipantStore: ps,
		WeightStore:      ws,
	})
	if !errors.Is(err, domainParticipant.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
