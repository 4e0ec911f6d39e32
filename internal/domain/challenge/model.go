package challenge

import (
	"errors"
	"math"
	"time"

	"weighin/internal/domain/weight"
)

// Default configuration seeded on first run.
const (
	DefaultDurationDays      = 14
	DefaultCurrency          = "₽"
	DefaultPrizeContribution = 1000
)

// Config bounds the challenge: the window in which a join date may be
// chosen, how many days each participant's own challenge runs, and the
// display-only currency and per-head prize contribution. Duration counts
// from each participant's join date; there is no shared global end date.
type Config struct {
	RegistrationStart time.Time
	RegistrationEnd   time.Time
	DurationDays      int
	Currency          string
	PrizeContribution float64
	Announcement      string // markdown, rendered by the HTTP adapter
}

// DefaultConfig returns the configuration used until an admin saves one.
func DefaultConfig() Config {
	return Config{
		RegistrationStart: time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
		RegistrationEnd:   time.Date(2025, 9, 7, 0, 0, 0, 0, time.UTC),
		DurationDays:      DefaultDurationDays,
		Currency:          DefaultCurrency,
		PrizeContribution: DefaultPrizeContribution,
	}
}

// Validate checks if the Config has valid data.
// PRE: Config struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: registration window is ordered, duration is positive
func (c *Config) Validate() error {
	if c.RegistrationStart.IsZero() || c.RegistrationEnd.IsZero() {
		return errors.New("registration window must be set")
	}
	if c.RegistrationEnd.Before(c.RegistrationStart) {
		return errors.New("registration end cannot be before registration start")
	}
	if c.DurationDays <= 0 {
		return errors.New("challenge duration must be positive")
	}
	if c.PrizeContribution < 0 {
		return errors.New("prize contribution cannot be negative")
	}
	return nil
}

// WithinRegistration reports whether the given join date falls inside the
// registration window, boundaries included.
func (c *Config) WithinRegistration(date time.Time) bool {
	d := weight.DateOf(date)
	return !d.Before(weight.DateOf(c.RegistrationStart)) && !d.After(weight.DateOf(c.RegistrationEnd))
}

// RegistrationDaysLeft returns how many whole days of the registration
// window remain as of today, or 0 once the window is over or not yet open.
func (c *Config) RegistrationDaysLeft(today time.Time) int {
	if !c.WithinRegistration(today) {
		return 0
	}
	d := weight.DateOf(c.RegistrationEnd).Sub(weight.DateOf(today))
	return int(math.Ceil(d.Hours() / 24))
}

// PrizePool is the derived prize fund: one contribution per registered
// participant. It is never persisted.
func (c *Config) PrizePool(participantCount int) float64 {
	return float64(participantCount) * c.PrizeContribution
}
