package challenge

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weighin/internal/adapters/storage"
	domain "weighin/internal/domain/challenge"
)

const dateFormat = "2006-01-02"

// SQLiteStore implements Store using SQLite. The configuration lives in a
// single row with id = 1.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new challenge configuration store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the stored configuration, or DefaultConfig when none exists.
func (s *SQLiteStore) Get(ctx context.Context) (domain.Config, error) {
	query := `SELECT registration_start, registration_end, duration_days,
		currency, prize_contribution, announcement
		FROM challenge_config WHERE id = 1`

	var cfg domain.Config
	var start, end string
	err := s.db.QueryRowContext(ctx, query).Scan(
		&start,
		&end,
		&cfg.DurationDays,
		&cfg.Currency,
		&cfg.PrizeContribution,
		&cfg.Announcement,
	)
	if err == sql.ErrNoRows {
		return domain.DefaultConfig(), nil
	}
	if err != nil {
		return domain.Config{}, err
	}
	cfg.RegistrationStart, err = time.ParseInLocation(dateFormat, start, time.UTC)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to parse registration_start: %w", err)
	}
	cfg.RegistrationEnd, err = time.ParseInLocation(dateFormat, end, time.UTC)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to parse registration_end: %w", err)
	}
	return cfg, nil
}

// Save persists the configuration singleton.
// PRE: cfg has been validated
func (s *SQLiteStore) Save(ctx context.Context, cfg domain.Config) error {
	query := `INSERT INTO challenge_config
		(id, registration_start, registration_end, duration_days, currency, prize_contribution, announcement)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			registration_start=excluded.registration_start,
			registration_end=excluded.registration_end,
			duration_days=excluded.duration_days,
			currency=excluded.currency,
			prize_contribution=excluded.prize_contribution,
			announcement=excluded.announcement`

	_, err := s.db.ExecContext(ctx, query,
		cfg.RegistrationStart.Format(dateFormat),
		cfg.RegistrationEnd.Format(dateFormat),
		cfg.DurationDays,
		cfg.Currency,
		cfg.PrizeContribution,
		cfg.Announcement,
	)
	return err
}
