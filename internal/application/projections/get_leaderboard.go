package projections

import (
	"context"
	"sort"
	"time"

	participantStore "weighin/internal/adapters/storage/participant"
	"weighin/internal/domain/challenge"
	"weighin/internal/domain/weight"
)

// GetLeaderboardQuery carries input for the leaderboard projection.
type GetLeaderboardQuery struct {
	Today time.Time // optional: if zero, time.Now() is used
}

// LeaderboardRow is one ranked participant.
// Percent is the raw unrounded value the ranking was computed from;
// rounding to one decimal is a display concern.
type LeaderboardRow struct {
	Position      int
	ParticipantID int64
	Name          string
	JoinDate      time.Time
	StartWeight   float64
	CurrentWeight float64 // latest sample, or StartWeight when none exists
	HasWeight     bool    // false when neither a start weight nor a sample exists
	WeightLost    float64
	Percent       float64
	DaysPassed    int
	DaysRemaining int
	Active        bool
	Status        string
}

// GetLeaderboardResult carries the output of the leaderboard projection.
type GetLeaderboardResult struct {
	Rows []LeaderboardRow
}

// GetLeaderboardDeps holds dependencies for the leaderboard projection.
type GetLeaderboardDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
}

// QueryGetLeaderboard ranks all participants by percent of starting weight
// lost, highest first. Participants without a defined progress rank at 0%.
// The sort is stable over the store's ID ordering, so equal percentages
// keep their registration order and repeated calls over unchanged data
// return identical rankings.
// POST: Rows are sorted by unrounded Percent descending, Position is 1-based
func QueryGetLeaderboard(ctx context.Context, query GetLeaderboardQuery, deps GetLeaderboardDeps) (GetLeaderboardResult, error) {
	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}

	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return GetLeaderboardResult{}, err
	}

	participants, err := deps.ParticipantStore.List(ctx, participantStore.ListFilter{})
	if err != nil {
		return GetLeaderboardResult{}, err
	}

	samples, err := deps.WeightStore.ListAll(ctx)
	if err != nil {
		return GetLeaderboardResult{}, err
	}
	ledger := weight.NewLedger(samples)

	rows := make([]LeaderboardRow, 0, len(participants))
	for _, p := range participants {
		window := challenge.ParticipantWindow(p.JoinDate, today, cfg.DurationDays)

		row := LeaderboardRow{
			ParticipantID: p.ID,
			Name:          p.Name,
			JoinDate:      p.JoinDate,
			StartWeight:   p.StartWeight,
			CurrentWeight: p.StartWeight,
			HasWeight:     p.HasStartWeight(),
			DaysPassed:    window.DaysPassed,
			DaysRemaining: window.DaysRemaining,
			Active:        window.Active,
			Status:        p.Status,
		}
		if latest, ok := ledger.Latest(p.ID); ok {
			row.CurrentWeight = latest.Weight
			row.HasWeight = true
		}
		if progress, ok := challenge.ComputeProgress(p, ledger); ok {
			row.WeightLost = progress.WeightLost
			row.Percent = progress.Percent
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Percent > rows[j].Percent
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	return GetLeaderboardResult{Rows: rows}, nil
}
