package projections

import (
	"context"
	"time"

	participantStore "weighin/internal/adapters/storage/participant"
	"weighin/internal/domain/challenge"
	"weighin/internal/domain/weight"
)

// GetChallengeStatsQuery carries input for the challenge stats projection.
type GetChallengeStatsQuery struct {
	Today time.Time // optional: if zero, time.Now() is used
}

// GetChallengeStatsResult carries the aggregate figures for the dashboard
// header. AveragePercent is the mean over participants whose progress is
// defined; TotalLost sums only actual losses, a participant who gained
// contributes zero rather than offsetting the group total.
type GetChallengeStatsResult struct {
	ParticipantCount     int
	AveragePercent       float64
	TotalLost            float64
	PrizePool            float64
	Currency             string
	RegistrationOpen     bool
	RegistrationDaysLeft int
}

// GetChallengeStatsDeps holds dependencies for the challenge stats projection.
type GetChallengeStatsDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
}

// QueryGetChallengeStats aggregates group-level figures.
// POST: AveragePercent is 0 when no participant has a defined progress
func QueryGetChallengeStats(ctx context.Context, query GetChallengeStatsQuery, deps GetChallengeStatsDeps) (GetChallengeStatsResult, error) {
	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}

	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return GetChallengeStatsResult{}, err
	}

	participants, err := deps.ParticipantStore.List(ctx, participantStore.ListFilter{})
	if err != nil {
		return GetChallengeStatsResult{}, err
	}

	samples, err := deps.WeightStore.ListAll(ctx)
	if err != nil {
		return GetChallengeStatsResult{}, err
	}
	ledger := weight.NewLedger(samples)

	result := GetChallengeStatsResult{
		ParticipantCount:     len(participants),
		PrizePool:            cfg.PrizePool(len(participants)),
		Currency:             cfg.Currency,
		RegistrationOpen:     cfg.WithinRegistration(today),
		RegistrationDaysLeft: cfg.RegistrationDaysLeft(today),
	}

	var percentSum float64
	var defined int
	for _, p := range participants {
		progress, ok := challenge.ComputeProgress(p, ledger)
		if !ok {
			continue
		}
		defined++
		percentSum += progress.Percent
		if progress.WeightLost > 0 {
			result.TotalLost += progress.WeightLost
		}
	}
	if defined > 0 {
		result.AveragePercent = percentSum / float64(defined)
	}

	return result, nil
}
