package projections

import (
	"context"
	"fmt"
	"time"

	"weighin/internal/domain/challenge"
	"weighin/internal/domain/weight"
)

// Series kinds.
const (
	SeriesWeight   = "weight"
	SeriesProgress = "progress"
)

// GetSeriesQuery carries input for the chart series projection.
type GetSeriesQuery struct {
	ParticipantID int64
	Kind          string    // "weight" or "progress"
	AllDays       bool      // full challenge span vs elapsed days only
	Today         time.Time // optional: if zero, time.Now() is used
}

// GetSeriesResult carries one chart line. Values is aligned with Days and
// Dates; a nil entry is a gap the chart must not draw through.
type GetSeriesResult struct {
	ParticipantID int64
	Kind          string
	Days          []int
	Dates         []time.Time
	Values        []*float64
}

// GetSeriesDeps holds dependencies for the series projection.
type GetSeriesDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
}

// QueryGetSeries builds a per-day chart series for one participant.
// Day k maps to joinDate+(k-1). A day with a recorded sample takes that
// sample's value. An elapsed day without one carries the latest value known
// as of that day forward, falling back to the starting weight before the
// first sample. Days beyond the elapsed window stay nil so the chart shows
// the future as a gap rather than a flat line.
// PRE: query.ParticipantID refers to an existing participant
// POST: len(Values) == len(Days) == len(Dates)
func QueryGetSeries(ctx context.Context, query GetSeriesQuery, deps GetSeriesDeps) (GetSeriesResult, error) {
	if query.Kind != SeriesWeight && query.Kind != SeriesProgress {
		return GetSeriesResult{}, fmt.Errorf("kind must be %s or %s", SeriesWeight, SeriesProgress)
	}
	today := query.Today
	if today.IsZero() {
		today = time.Now()
	}

	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return GetSeriesResult{}, err
	}
	p, err := deps.ParticipantStore.GetByID(ctx, query.ParticipantID)
	if err != nil {
		return GetSeriesResult{}, err
	}
	samples, err := deps.WeightStore.ListByParticipant(ctx, p.ID)
	if err != nil {
		return GetSeriesResult{}, err
	}
	ledger := weight.NewLedger(samples)

	window := challenge.ParticipantWindow(p.JoinDate, today, cfg.DurationDays)

	days := cfg.DurationDays
	if !query.AllDays {
		days = window.DaysPassed
	}

	result := GetSeriesResult{
		ParticipantID: p.ID,
		Kind:          query.Kind,
		Days:          make([]int, 0, days),
		Dates:         make([]time.Time, 0, days),
		Values:        make([]*float64, 0, days),
	}

	// Without both a start weight and samples there is nothing to plot,
	// and for the progress kind a zero start weight would divide by zero.
	noData := !p.HasStartWeight() && len(samples) == 0
	progressUndefined := query.Kind == SeriesProgress && !p.HasStartWeight()

	for day := 1; day <= days; day++ {
		date := challenge.DayDate(p.JoinDate, day)
		result.Days = append(result.Days, day)
		result.Dates = append(result.Dates, date)

		if noData || progressUndefined {
			result.Values = append(result.Values, nil)
			continue
		}

		w, ok := weightOnDay(p.StartWeight, ledger, p.ID, date, day, window.DaysPassed)
		if !ok {
			result.Values = append(result.Values, nil)
			continue
		}

		v := w
		if query.Kind == SeriesProgress {
			v = (p.StartWeight - w) / p.StartWeight * 100
		}
		result.Values = append(result.Values, &v)
	}

	return result, nil
}

// weightOnDay resolves the weight to plot for one challenge day.
func weightOnDay(startWeight float64, ledger *weight.Ledger, participantID int64, date time.Time, day, daysPassed int) (float64, bool) {
	if s, ok := ledger.OnDate(participantID, date); ok {
		return s.Weight, true
	}
	if day > daysPassed {
		return 0, false
	}
	if s, ok := ledger.LatestOnOrBefore(participantID, date); ok {
		return s.Weight, true
	}
	if startWeight > 0 {
		return startWeight, true
	}
	return 0, false
}
