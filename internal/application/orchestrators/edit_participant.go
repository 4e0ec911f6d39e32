package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"weighin/internal/domain/participant"
	"weighin/internal/domain/weight"
)

// EditParticipantInput carries input for the orchestrator. Zero-valued
// fields mean "leave unchanged" except StartWeight, where -1 means
// unchanged so 0 can clear it.
type EditParticipantInput struct {
	ID          int64
	Name        string
	StartWeight float64
	JoinDate    time.Time
	Status      string
}

// EditParticipantDeps holds dependencies for EditParticipant.
type EditParticipantDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
	Now              func() time.Time
}

// ExecuteEditParticipant updates a participant's registration fields.
// Moving the join date also moves the day-one weigh-in sample so the
// starting point of the series stays anchored to day one. Changing the
// start weight rewrites that sample's value. The status is only ever
// changed when the input names one explicitly.
// PRE: input.ID refers to an existing participant
// POST: Participant and its day-one sample are consistent
func ExecuteEditParticipant(ctx context.Context, input EditParticipantInput, deps EditParticipantDeps) error {
	if input.ID == 0 {
		return errors.New("participant id is required")
	}

	p, err := deps.ParticipantStore.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}

	oldJoinDate := p.JoinDate

	if strings.TrimSpace(input.Name) != "" {
		p.Name = strings.TrimSpace(input.Name)
	}
	if input.StartWeight >= 0 {
		p.StartWeight = input.StartWeight
	}
	if !input.JoinDate.IsZero() {
		cfg, err := deps.ConfigStore.Get(ctx)
		if err != nil {
			return err
		}
		if !cfg.WithinRegistration(input.JoinDate) {
			return errors.New("join date is outside the registration window")
		}
		p.JoinDate = weight.DateOf(input.JoinDate)
	}
	if input.Status != "" {
		if input.Status != participant.StatusPlanned && input.Status != participant.StatusParticipating {
			return errors.New("status must be 'planned' or 'participating'")
		}
		p.Status = input.Status
	}

	if err := p.Validate(); err != nil {
		return err
	}
	if err := deps.ParticipantStore.Save(ctx, p); err != nil {
		return err
	}

	// Keep the day-one sample anchored to the join date: a moved join date
	// takes its sample along, a changed start weight rewrites its value.
	if !oldJoinDate.Equal(p.JoinDate) {
		if _, err := deps.WeightStore.GetByParticipantAndDate(ctx, p.ID, oldJoinDate); err == nil {
			if err := deps.WeightStore.DeleteByParticipantAndDate(ctx, p.ID, oldJoinDate); err != nil {
				return err
			}
		}
	}
	if p.HasStartWeight() {
		s := weight.Sample{
			ParticipantID: p.ID,
			Date:          p.JoinDate,
			Weight:        p.StartWeight,
			RecordedAt:    deps.Now(),
		}
		if err := deps.WeightStore.Upsert(ctx, s); err != nil {
			return err
		}
	}

	return nil
}
