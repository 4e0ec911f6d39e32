package orchestrators

import (
	"context"
	"errors"
	"time"

	"weighin/internal/domain/challenge"
	"weighin/internal/domain/weight"
)

// RecordWeightInput carries input for the orchestrator.
type RecordWeightInput struct {
	ParticipantID int64
	Date          time.Time // civil date of the weigh-in
	Weight        float64
}

// RecordWeightDeps holds dependencies for the weigh-in orchestrators.
type RecordWeightDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
	Now              func() time.Time
}

// ExecuteRecordWeight records a weigh-in for one participant on one civil
// date, overwriting any earlier entry for that date.
// PRE: Weight is positive, date falls inside the participant's challenge
// POST: Exactly one sample exists for (participant, date)
func ExecuteRecordWeight(ctx context.Context, input RecordWeightInput, deps RecordWeightDeps) error {
	if input.Weight <= 0 {
		return errors.New("weight must be positive")
	}
	if input.Date.IsZero() {
		return errors.New("date is required")
	}

	p, err := deps.ParticipantStore.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return err
	}
	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return err
	}

	date := weight.DateOf(input.Date)
	if date.Before(p.JoinDate) {
		return errors.New("weigh-in date is before the join date")
	}
	if date.After(challenge.DayDate(p.JoinDate, cfg.DurationDays)) {
		return errors.New("weigh-in date is after the challenge end")
	}

	s := weight.Sample{
		ParticipantID: p.ID,
		Date:          date,
		Weight:        input.Weight,
		RecordedAt:    deps.Now(),
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return deps.WeightStore.Upsert(ctx, s)
}

// RecordFinalWeightInput carries input for the final weigh-in orchestrator.
type RecordFinalWeightInput struct {
	ParticipantID int64
	Weight        float64
}

// ExecuteRecordFinalWeight records the official closing weigh-in. The
// sample is pinned to the participant's last challenge day regardless of
// when the admin enters it, and RecordedAt carries the ceremonial 17:00
// timestamp. The 17:00 annotation never feeds into day arithmetic.
// PRE: Weight is positive
// POST: The sample on the last challenge day holds the final weight
func ExecuteRecordFinalWeight(ctx context.Context, input RecordFinalWeightInput, deps RecordWeightDeps) error {
	if input.Weight <= 0 {
		return errors.New("weight must be positive")
	}

	p, err := deps.ParticipantStore.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return err
	}
	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return err
	}

	s := weight.Sample{
		ParticipantID: p.ID,
		Date:          challenge.DayDate(p.JoinDate, cfg.DurationDays),
		Weight:        input.Weight,
		RecordedAt:    challenge.FinalWeighIn(p.JoinDate, cfg.DurationDays),
	}
	if err := s.Validate(); err != nil {
		return err
	}
	return deps.WeightStore.Upsert(ctx, s)
}

// SetStartWeightInput carries input for the start-weight orchestrator.
type SetStartWeightInput struct {
	ParticipantID int64
	Weight        float64
}

// ExecuteSetStartWeight records a late starting weight for a participant
// who registered without one. The status is left alone; planned stays
// planned until an admin edit changes it.
// PRE: Weight is positive
// POST: StartWeight set and the day-one sample written
func ExecuteSetStartWeight(ctx context.Context, input SetStartWeightInput, deps RecordWeightDeps) error {
	if input.Weight <= 0 {
		return errors.New("weight must be positive")
	}

	p, err := deps.ParticipantStore.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return err
	}
	p.StartWeight = input.Weight
	if err := p.Validate(); err != nil {
		return err
	}
	if err := deps.ParticipantStore.Save(ctx, p); err != nil {
		return err
	}

	s := weight.Sample{
		ParticipantID: p.ID,
		Date:          p.JoinDate,
		Weight:        input.Weight,
		RecordedAt:    deps.Now(),
	}
	return deps.WeightStore.Upsert(ctx, s)
}
