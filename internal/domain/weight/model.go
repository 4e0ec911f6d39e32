package weight

import (
	"errors"
	"time"
)

// Sample holds one dated weigh-in for a participant.
// Date is a civil date (midnight UTC); at most one sample exists per
// (ParticipantID, Date) pair. RecordedAt is a record-keeping annotation
// (the admin final weigh-in pins 17:00) and is never used in day math.
type Sample struct {
	ParticipantID int64
	Date          time.Time
	Weight        float64 // kilograms
	RecordedAt    time.Time
}

// Validate checks if the Sample has valid data.
// PRE: Sample struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Weight must be positive, Date must be set
func (s *Sample) Validate() error {
	if s.ParticipantID == 0 {
		return errors.New("sample must be associated with a participant")
	}
	if s.Date.IsZero() {
		return errors.New("sample date must be set")
	}
	if s.Weight <= 0 {
		return errors.New("sample weight must be positive")
	}
	return nil
}

// DateOf normalizes a timestamp to its civil date (midnight UTC).
// Sample dates and ledger lookups compare on this normalized form so a
// time-of-day component can never split one calendar day into two keys.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
