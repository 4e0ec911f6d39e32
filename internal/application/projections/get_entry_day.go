package projections

import (
	"context"
	"time"

	participantStore "weighin/internal/adapters/storage/participant"
	"weighin/internal/domain/challenge"
	"weighin/internal/domain/participant"
	"weighin/internal/domain/weight"
)

// GetEntryDayQuery carries input for the entry-day projection.
type GetEntryDayQuery struct {
	Date time.Time // civil date the entry form is for; if zero, today
}

// EntryDayRow is one participant on the weigh-in entry form.
type EntryDayRow struct {
	ParticipantID int64
	Name          string
	ChallengeDay  int     // 1-based day the given date falls on, 0 outside the window
	DisplayWeight float64 // latest weight known as of the date, or the start weight
	HasEntry      bool    // an exact sample exists on the date
	EntryWeight   float64 // that sample's value when HasEntry
	Active        bool
}

// GetEntryDayResult carries the output of the entry-day projection.
type GetEntryDayResult struct {
	Date time.Time
	Rows []EntryDayRow
}

// GetEntryDayDeps holds dependencies for the entry-day projection.
type GetEntryDayDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
}

// QueryGetEntryDay lists participating members with what is already known
// for the given date, so the entry form can pre-fill existing values and
// show whether a submission would overwrite one. Planned participants are
// excluded; they have no weigh-ins to enter yet.
func QueryGetEntryDay(ctx context.Context, query GetEntryDayQuery, deps GetEntryDayDeps) (GetEntryDayResult, error) {
	date := query.Date
	if date.IsZero() {
		date = time.Now()
	}
	date = weight.DateOf(date)

	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return GetEntryDayResult{}, err
	}

	participants, err := deps.ParticipantStore.List(ctx, participantStore.ListFilter{Status: participant.StatusParticipating})
	if err != nil {
		return GetEntryDayResult{}, err
	}

	samples, err := deps.WeightStore.ListAll(ctx)
	if err != nil {
		return GetEntryDayResult{}, err
	}
	ledger := weight.NewLedger(samples)

	result := GetEntryDayResult{Date: date}
	for _, p := range participants {
		window := challenge.ParticipantWindow(p.JoinDate, date, cfg.DurationDays)

		row := EntryDayRow{
			ParticipantID: p.ID,
			Name:          p.Name,
			DisplayWeight: p.StartWeight,
			Active:        window.Active,
		}
		if window.Active && !weight.DateOf(p.JoinDate).After(date) {
			row.ChallengeDay = window.DaysPassed + 1
			if row.ChallengeDay > cfg.DurationDays {
				row.ChallengeDay = cfg.DurationDays
			}
		}
		if s, ok := ledger.LatestOnOrBefore(p.ID, date); ok {
			row.DisplayWeight = s.Weight
		}
		if s, ok := ledger.OnDate(p.ID, date); ok {
			row.HasEntry = true
			row.EntryWeight = s.Weight
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}
