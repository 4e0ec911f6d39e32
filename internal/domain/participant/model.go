package participant

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Status constants for a participant's registration state.
// A participant is "planned" when registered without a start weight and
// "participating" once the challenge is underway. The status never
// transitions automatically when a weight is recorded later; only an
// explicit edit changes it.
const (
	StatusPlanned       = "planned"
	StatusParticipating = "participating"
)

// Domain errors
var (
	ErrNotFound = errors.New("participant not found")
)

// Participant holds state for one challenge participant.
// JoinDate is a civil date (midnight UTC); StartWeight of 0 means the
// participant has registered but not yet weighed in.
type Participant struct {
	ID          int64
	Name        string
	StartWeight float64 // kilograms; 0 until the first weigh-in
	JoinDate    time.Time
	Status      string
}

// Validate checks if the Participant has valid data.
// PRE: Participant struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Name must not be empty, StartWeight must not be negative
func (p *Participant) Validate() error {
	if p.ID == 0 {
		return errors.New("participant id must be set")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("participant name cannot be empty")
	}
	if len(p.Name) > MaxNameLength {
		return errors.New("participant name cannot exceed 100 characters")
	}
	if p.StartWeight < 0 {
		return errors.New("start weight cannot be negative")
	}
	if p.JoinDate.IsZero() {
		return errors.New("join date must be set")
	}
	if p.Status != StatusPlanned && p.Status != StatusParticipating {
		return errors.New("status must be 'planned' or 'participating'")
	}
	return nil
}

// HasStartWeight returns true once a starting weight has been recorded.
// INVARIANT: fields are not mutated
func (p *Participant) HasStartWeight() bool {
	return p.StartWeight > 0
}

// StatusForStartWeight returns the status a newly registered participant
// gets: planned without a start weight, participating with one.
func StatusForStartWeight(startWeight float64) string {
	if startWeight > 0 {
		return StatusParticipating
	}
	return StatusPlanned
}
