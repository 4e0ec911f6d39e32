package orchestrators

import (
	"context"
	"errors"
)

// DeleteParticipantInput carries input for the orchestrator.
type DeleteParticipantInput struct {
	ID int64
}

// DeleteParticipantDeps holds dependencies for DeleteParticipant.
type DeleteParticipantDeps struct {
	ParticipantStore ParticipantStore
	WeightStore      WeightStore
}

// ExecuteDeleteParticipant removes a participant and every weight sample
// recorded for them. The samples go first so a failure never leaves
// orphaned rows behind a deleted participant.
// PRE: input.ID refers to an existing participant
// POST: Neither the participant nor any of their samples remain
func ExecuteDeleteParticipant(ctx context.Context, input DeleteParticipantInput, deps DeleteParticipantDeps) error {
	if input.ID == 0 {
		return errors.New("participant id is required")
	}
	if _, err := deps.ParticipantStore.GetByID(ctx, input.ID); err != nil {
		return err
	}
	if err := deps.WeightStore.DeleteByParticipant(ctx, input.ID); err != nil {
		return err
	}
	return deps.ParticipantStore.Delete(ctx, input.ID)
}
