package orchestrators

import (
	"context"
	"errors"
	"strings"
	"time"

	"weighin/internal/domain/challenge"
	"weighin/internal/domain/participant"
	"weighin/internal/domain/weight"
)

// ParticipantStore defines the interface for participant persistence.
type ParticipantStore interface {
	Save(ctx context.Context, p participant.Participant) error
	GetByID(ctx context.Context, id int64) (participant.Participant, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
}

// WeightStore defines the interface for weight sample persistence.
type WeightStore interface {
	Upsert(ctx context.Context, s weight.Sample) error
	GetByParticipantAndDate(ctx context.Context, participantID int64, date time.Time) (weight.Sample, error)
	DeleteByParticipant(ctx context.Context, participantID int64) error
	DeleteByParticipantAndDate(ctx context.Context, participantID int64, date time.Time) error
	DeleteAll(ctx context.Context) error
}

// ConfigStore defines the interface for challenge configuration persistence.
type ConfigStore interface {
	Get(ctx context.Context) (challenge.Config, error)
	Save(ctx context.Context, cfg challenge.Config) error
}

// RegisterParticipantInput carries input for the orchestrator.
type RegisterParticipantInput struct {
	Name        string
	StartWeight float64   // 0 when the participant has not weighed in yet
	JoinDate    time.Time // civil date; must fall inside the registration window
}

// RegisterParticipantDeps holds dependencies for RegisterParticipant.
type RegisterParticipantDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
	GenerateID       func() int64
	Now              func() time.Time
}

// ExecuteRegisterParticipant coordinates participant registration.
// PRE: Non-empty name, non-negative start weight, join date in the window
// POST: Participant created; a start weight also writes the day-one sample
// INVARIANT: Status is planned without a start weight, participating with one
func ExecuteRegisterParticipant(ctx context.Context, input RegisterParticipantInput, deps RegisterParticipantDeps) (int64, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, errors.New("name cannot be empty")
	}
	if input.StartWeight < 0 {
		return 0, errors.New("start weight cannot be negative")
	}
	if input.JoinDate.IsZero() {
		return 0, errors.New("join date is required")
	}

	cfg, err := deps.ConfigStore.Get(ctx)
	if err != nil {
		return 0, err
	}
	if !cfg.WithinRegistration(input.JoinDate) {
		return 0, errors.New("join date is outside the registration window")
	}

	p := participant.Participant{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		StartWeight: input.StartWeight,
		JoinDate:    weight.DateOf(input.JoinDate),
		Status:      participant.StatusForStartWeight(input.StartWeight),
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}
	if err := deps.ParticipantStore.Save(ctx, p); err != nil {
		return 0, err
	}

	// The starting weight doubles as the day-one weigh-in.
	if p.HasStartWeight() {
		s := weight.Sample{
			ParticipantID: p.ID,
			Date:          p.JoinDate,
			Weight:        p.StartWeight,
			RecordedAt:    deps.Now(),
		}
		if err := deps.WeightStore.Upsert(ctx, s); err != nil {
			return 0, err
		}
	}

	return p.ID, nil
}
