package orchestrators

import (
	"context"
	"testing"

	domainChallenge "weighin/internal/domain/challenge"
	domainParticipant "weighin/internal/domain/participant"
	domainWeight "weighin/internal/domain/weight"
)

// TestExecuteResetChallenge verifies both stores are wiped and the
// configuration returns to defaults.
func TestExecuteResetChallenge(t *testing.T) {
	ps := newMockParticipantStore(
		domainParticipant.Participant{ID: 1, Name: "Анна", StartWeight: 80, JoinDate: day(2025, 8, 25), Status: domainParticipant.StatusParticipating},
	)
	ws := newMockWeightStore()
	ws.Upsert(context.Background(), domainWeight.Sample{ParticipantID: 1, Date: day(2025, 8, 25), Weight: 80})
	cs := &mockConfigStore{cfg: domainChallenge.Config{
		RegistrationStart: day(2026, 1, 1),
		RegistrationEnd:   day(2026, 1, 14),
		DurationDays:      30,
		Currency:          "$",
		PrizeContribution: 50,
	}}

	if err := ExecuteResetChallenge(context.Background(), ResetChallengeDeps{
		ParticipantStore: ps,
		WeightStore:      ws,
		ConfigStore:      cs,
	}); err != nil {
		t.Fatalf("ExecuteResetChallenge failed: %v", err)
	}

	if !ps.deletedAll || len(ps.participants) != 0 {
		t.Error("participants not wiped")
	}
	if !ws.deletedAll || len(ws.samples) != 0 {
		t.Error("samples not wiped")
	}
	if cs.saved == nil {
		t.Fatal("configuration not saved")
	}
	def := domainChallenge.DefaultConfig()
	if cs.saved.DurationDays != def.DurationDays || cs.saved.Currency != def.Currency {
		t.Errorf("saved config = %+v, want defaults", *cs.saved)
	}
}

// TestExecuteUpdateConfig verifies validation gates the save.
func TestExecuteUpdateConfig(t *testing.T) {
	cs := &mockConfigStore{}

	bad := domainChallenge.Config{
		RegistrationStart: day(2025, 9, 7),
		RegistrationEnd:   day(2025, 8, 25),
		DurationDays:      14,
	}
	if err := ExecuteUpdateConfig(context.Background(), UpdateConfigInput{Config: bad}, UpdateConfigDeps{ConfigStore: cs}); err == nil {
		t.Error("inverted window should be rejected")
	}
	if cs.saved != nil {
		t.Error("invalid config must not be saved")
	}

	good := domainChallenge.DefaultConfig()
	good.Announcement = "# Старт 25 августа"
	if err := ExecuteUpdateConfig(context.Background(), UpdateConfigInput{Config: good}, UpdateConfigDeps{ConfigStore: cs}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	if cs.saved == nil || cs.saved.Announcement != good.Announcement {
		t.Error("announcement not persisted")
	}
}
