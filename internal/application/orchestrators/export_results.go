package orchestrators

import (
	"context"
	"time"

	"weighin/internal/application/projections"
	"weighin/internal/domain/challenge"
	"weighin/internal/domain/export"

	"github.com/google/uuid"
)

// ExportResultsInput carries input for the orchestrator.
type ExportResultsInput struct {
	Today time.Time // optional: if zero, time.Now() is used
}

// ExportResultsDeps holds dependencies for ExportResults.
type ExportResultsDeps struct {
	ParticipantStore projections.ParticipantStore
	WeightStore      projections.WeightStore
	ConfigStore      projections.ConfigStore
}

// ExportResultsOutput is the generated download.
type ExportResultsOutput struct {
	RequestID string
	Filename  string
	Content   []byte
}

// ExecuteExportResults renders the current leaderboard as a CSV download.
// The rows come from the same projection the dashboard uses, so the file
// always matches what the screen showed.
// POST: Content holds a header line plus one line per participant
func ExecuteExportResults(ctx context.Context, input ExportResultsInput, deps ExportResultsDeps) (ExportResultsOutput, error) {
	today := input.Today
	if today.IsZero() {
		today = time.Now()
	}

	leaderboard, err := projections.QueryGetLeaderboard(ctx, projections.GetLeaderboardQuery{Today: today}, projections.GetLeaderboardDeps{
		ParticipantStore: deps.ParticipantStore,
		WeightStore:      deps.WeightStore,
		ConfigStore:      deps.ConfigStore,
	})
	if err != nil {
		return ExportResultsOutput{}, err
	}

	rows := make([]export.Row, 0, len(leaderboard.Rows))
	for _, r := range leaderboard.Rows {
		rows = append(rows, export.Row{
			Position:      r.Position,
			Name:          r.Name,
			JoinDate:      r.JoinDate,
			StartWeight:   r.StartWeight,
			CurrentWeight: r.CurrentWeight,
			HasWeight:     r.HasWeight,
			Percent:       challenge.Round1(r.Percent),
			Active:        r.Active,
		})
	}

	content, err := export.ToCSV(rows)
	if err != nil {
		return ExportResultsOutput{}, err
	}

	return ExportResultsOutput{
		RequestID: uuid.New().String(),
		Filename:  export.Filename(today),
		Content:   content,
	}, nil
}
