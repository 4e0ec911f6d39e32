package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "weighin/internal/adapters/email"
	"weighin/internal/application/projections"
	"weighin/internal/domain/challenge"
)

// EmailResultsInput carries input for the orchestrator.
type EmailResultsInput struct {
	To      []string
	Subject string    // optional; a default subject is used when empty
	Today   time.Time // optional: if zero, time.Now() is used
}

// EmailResultsDeps holds dependencies for EmailResults.
type EmailResultsDeps struct {
	ParticipantStore projections.ParticipantStore
	WeightStore      projections.WeightStore
	ConfigStore      projections.ConfigStore
	EmailSender      emailAdapter.Sender
	FromAddress      string
}

// ExecuteEmailResults sends the current standings to the group.
// PRE: At least one recipient address
// POST: One email per call, carrying the ranked table as HTML
func ExecuteEmailResults(ctx context.Context, input EmailResultsInput, deps EmailResultsDeps) (string, error) {
	if len(input.To) == 0 {
		return "", errors.New("at least one recipient is required")
	}

	today := input.Today
	if today.IsZero() {
		today = time.Now()
	}

	dashboard, err := projections.QueryGetDashboard(ctx, projections.GetDashboardQuery{Today: today}, projections.GetDashboardDeps{
		ParticipantStore: deps.ParticipantStore,
		WeightStore:      deps.WeightStore,
		ConfigStore:      deps.ConfigStore,
	})
	if err != nil {
		return "", err
	}

	subject := input.Subject
	if subject == "" {
		subject = fmt.Sprintf("Результаты челленджа — %s", today.Format("02.01.2006"))
	}

	result, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      input.To,
		From:    deps.FromAddress,
		Subject: subject,
		HTML:    renderResultsHTML(dashboard),
	})
	if err != nil {
		return "", err
	}

	slog.Info("email_event", "event", "results_sent", "message_id", result.MessageID, "recipient_count", len(input.To))
	return result.MessageID, nil
}

func renderResultsHTML(d projections.GetDashboardResult) string {
	var b strings.Builder
	b.WriteString("<h2>Результаты челленджа</h2>")
	fmt.Fprintf(&b, "<p>Участников: %d. Общий сброшенный вес: %.1f кг. Призовой фонд: %.0f %s.</p>",
		d.Stats.ParticipantCount, d.Stats.TotalLost, d.Stats.PrizePool, d.Stats.Currency)

	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Позиция</th><th>Имя</th><th>Прогресс (%)</th></tr>")
	for _, row := range d.Leaderboard {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%.1f</td></tr>",
			row.Position, row.Name, challenge.Round1(row.Percent))
	}
	b.WriteString("</table>")
	return b.String()
}
