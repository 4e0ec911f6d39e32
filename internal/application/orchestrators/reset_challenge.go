package orchestrators

import (
	"context"
	"log/slog"

	"weighin/internal/domain/challenge"
)

// ResetChallengeDeps holds dependencies for ResetChallenge.
type ResetChallengeDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
	ConfigStore      ConfigStore
}

// ExecuteResetChallenge wipes every participant and weigh-in and restores
// the default configuration. There is no undo; the HTTP layer gates this
// behind the admin session and an explicit confirmation.
// POST: Stores are empty and the configuration equals the defaults
func ExecuteResetChallenge(ctx context.Context, deps ResetChallengeDeps) error {
	if err := deps.WeightStore.DeleteAll(ctx); err != nil {
		return err
	}
	if err := deps.ParticipantStore.DeleteAll(ctx); err != nil {
		return err
	}
	if err := deps.ConfigStore.Save(ctx, challenge.DefaultConfig()); err != nil {
		return err
	}
	slog.Info("challenge_event", "event", "challenge_reset")
	return nil
}

// UpdateConfigInput carries input for the configuration orchestrator.
type UpdateConfigInput struct {
	Config challenge.Config
}

// UpdateConfigDeps holds dependencies for UpdateConfig.
type UpdateConfigDeps struct {
	ConfigStore ConfigStore
}

// ExecuteUpdateConfig validates and persists a new challenge configuration.
// PRE: input.Config passes domain validation
// POST: The singleton configuration row holds the new values
func ExecuteUpdateConfig(ctx context.Context, input UpdateConfigInput, deps UpdateConfigDeps) error {
	if err := input.Config.Validate(); err != nil {
		return err
	}
	return deps.ConfigStore.Save(ctx, input.Config)
}
