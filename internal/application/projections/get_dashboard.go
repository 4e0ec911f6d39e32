package projections

import (
	"context"
	"time"

	"weighin/internal/domain/challenge"
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Today time.Time // optional: if zero, time.Now() is used
}

// GetDashboardResult composes everything the main screen renders.
// Announcement is raw markdown; the HTTP adapter renders it.
type GetDashboardResult struct {
	Config       challenge.Config
	Stats        GetChallengeStatsResult
	Leaderboard  []LeaderboardRow
	Announcement string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
}

// QueryGetDashboard composes the stats header and the leaderboard into one
// result so the main screen needs a single round trip.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (GetDashboardResult, error) {
	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}

	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return GetDashboardResult{}, err
	}

	stats, err := QueryGetChallengeStats(ctx, GetChallengeStatsQuery{Today: today}, GetChallengeStatsDeps(deps))
	if err != nil {
		return GetDashboardResult{}, err
	}

	leaderboard, err := QueryGetLeaderboard(ctx, GetLeaderboardQuery{Today: today}, GetLeaderboardDeps(deps))
	if err != nil {
		return GetDashboardResult{}, err
	}

	return GetDashboardResult{
		Config:       cfg,
		Stats:        stats,
		Leaderboard:  leaderboard.Rows,
		Announcement: cfg.Announcement,
	}, nil
}
