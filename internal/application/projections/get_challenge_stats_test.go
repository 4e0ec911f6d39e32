package projections

import (
	"context"
	"testing"

	domainParticipant "weighin/internal/domain/participant"
	domainWeight "weighin/internal/domain/weight"
)

// TestQueryGetChallengeStats_Aggregates verifies the mean runs over defined
// progress only, gains do not reduce the group total, and the prize pool is
// one contribution per registered head.
func TestQueryGetChallengeStats_Aggregates(t *testing.T) {
	deps := GetChallengeStatsDeps{
		ParticipantStore: &mockParticipantStore{participants: []domainParticipant.Participant{
			{ID: 1, Name: "Анна", StartWeight: 80, JoinDate: day(2025, 8, 25), Status: domainParticipant.StatusParticipating},
			{ID: 2, Name: "Борис", StartWeight: 90, JoinDate: day(2025, 8, 25), Status: domainParticipant.StatusParticipating},
			{ID: 3, Name: "Вера", StartWeight: 0, JoinDate: day(2025, 8, 26), Status: domainParticipant.StatusPlanned},
		}},
		WeightStore: &mockWeightStore{samples: []domainWeight.Sample{
			{ParticipantID: 1, Date: day(2025, 8, 30), Weight: 76},   // lost 4, +5%
			{ParticipantID: 2, Date: day(2025, 8, 30), Weight: 94.5}, // gained 4.5, -5%
		}},
		ConfigStore: &mockConfigStore{},
	}

	result, err := QueryGetChallengeStats(context.Background(), GetChallengeStatsQuery{Today: day(2025, 9, 1)}, deps)
	if err != nil {
		t.Fatalf("QueryGetChallengeStats failed: %v", err)
	}

	if result.ParticipantCount != 3 {
		t.Errorf("ParticipantCount = %d, want 3", result.ParticipantCount)
	}
	// Вера has no defined progress; the mean is (5 + -5) / 2.
	if result.AveragePercent != 0 {
		t.Errorf("AveragePercent = %v, want 0", result.AveragePercent)
	}
	if result.TotalLost != 4 {
		t.Errorf("TotalLost = %v, want 4 (gain contributes zero)", result.TotalLost)
	}
	if result.PrizePool != 3000 {
		t.Errorf("PrizePool = %v, want 3000", result.PrizePool)
	}
	if result.Currency != "₽" {
		t.Errorf("Currency = %q, want ₽", result.Currency)
	}
	if !result.RegistrationOpen {
		t.Error("RegistrationOpen = false, want true on 2025-09-01")
	}
	if result.RegistrationDaysLeft != 6 {
		t.Errorf("RegistrationDaysLeft = %d, want 6", result.RegistrationDaysLeft)
	}
}

// TestQueryGetChallengeStats_Empty verifies the zero-participant case.
func TestQueryGetChallengeStats_Empty(t *testing.T) {
	deps := GetChallengeStatsDeps{
		ParticipantStore: &mockParticipantStore{},
		WeightStore:      &mockWeightStore{},
		ConfigStore:      &mockConfigStore{},
	}

	result, err := QueryGetChallengeStats(context.Background(), GetChallengeStatsQuery{Today: day(2025, 10, 1)}, deps)
	if err != nil {
		t.Fatalf("QueryGetChallengeStats failed: %v", err)
	}

	if result.ParticipantCount != 0 || result.AveragePercent != 0 || result.TotalLost != 0 || result.PrizePool != 0 {
		t.Errorf("empty challenge should be all zeros, got %+v", result)
	}
	if result.RegistrationOpen {
		t.Error("RegistrationOpen = true, want false after the window")
	}
}
