package weight

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"weighin/internal/adapters/storage"
	domain "weighin/internal/domain/weight"
)

// ErrNotFound is returned when no sample exists for the requested key.
var ErrNotFound = errors.New("weight sample not found")

const (
	dateFormat     = "2006-01-02"
	recordedFormat = time.RFC3339
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new weight sample store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanSample(scan func(dest ...any) error) (domain.Sample, error) {
	var sample domain.Sample
	var date, recordedAt string
	err := scan(
		&sample.ParticipantID,
		&date,
		&sample.Weight,
		&recordedAt,
	)
	if err != nil {
		return domain.Sample{}, err
	}
	sample.Date, err = time.ParseInLocation(dateFormat, date, time.UTC)
	if err != nil {
		return domain.Sample{}, fmt.Errorf("failed to parse date: %w", err)
	}
	if recordedAt != "" {
		sample.RecordedAt, err = time.Parse(recordedFormat, recordedAt)
		if err != nil {
			return domain.Sample{}, fmt.Errorf("failed to parse recorded_at: %w", err)
		}
	}
	return sample, nil
}

// Upsert writes a sample keyed by (participant_id, date).
// PRE: sample has been validated
// POST: At most one row exists per participant per civil date
func (s *SQLiteStore) Upsert(ctx context.Context, sample domain.Sample) error {
	query := `INSERT INTO weight_sample (participant_id, date, weight, recorded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(participant_id, date) DO UPDATE SET
			weight=excluded.weight,
			recorded_at=excluded.recorded_at`

	var recordedAt string
	if !sample.RecordedAt.IsZero() {
		recordedAt = sample.RecordedAt.UTC().Format(recordedFormat)
	}

	_, err := s.db.ExecContext(ctx, query,
		sample.ParticipantID,
		domain.DateOf(sample.Date).Format(dateFormat),
		sample.Weight,
		recordedAt,
	)
	return err
}

// GetByParticipantAndDate returns the sample for an exact civil date.
// No carry-forward happens here; that is ledger logic.
func (s *SQLiteStore) GetByParticipantAndDate(ctx context.Context, participantID int64, date time.Time) (domain.Sample, error) {
	query := `SELECT participant_id, date, weight, recorded_at
		FROM weight_sample WHERE participant_id = ? AND date = ?`

	row := s.db.QueryRowContext(ctx, query, participantID, domain.DateOf(date).Format(dateFormat))
	sample, err := scanSample(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Sample{}, fmt.Errorf("%w: participant %d on %s",
			ErrNotFound, participantID, domain.DateOf(date).Format(dateFormat))
	}
	return sample, err
}

// ListByParticipant returns a participant's samples ascending by date.
func (s *SQLiteStore) ListByParticipant(ctx context.Context, participantID int64) ([]domain.Sample, error) {
	query := `SELECT participant_id, date, weight, recorded_at
		FROM weight_sample WHERE participant_id = ? ORDER BY date`
	return s.querySamples(ctx, query, participantID)
}

// ListAll returns every sample, grouped by participant, ascending by date.
func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Sample, error) {
	query := `SELECT participant_id, date, weight, recorded_at
		FROM weight_sample ORDER BY participant_id, date`
	return s.querySamples(ctx, query)
}

func (s *SQLiteStore) querySamples(ctx context.Context, query string, args ...any) ([]domain.Sample, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Sample
	for rows.Next() {
		sample, err := scanSample(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sample)
	}
	return out, rows.Err()
}

// DeleteByParticipant removes all samples for a participant.
func (s *SQLiteStore) DeleteByParticipant(ctx context.Context, participantID int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM weight_sample WHERE participant_id = ?", participantID)
	return err
}

// DeleteByParticipantAndDate removes a single sample.
func (s *SQLiteStore) DeleteByParticipantAndDate(ctx context.Context, participantID int64, date time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM weight_sample WHERE participant_id = ? AND date = ?",
		participantID, domain.DateOf(date).Format(dateFormat))
	return err
}

// DeleteAll removes every sample.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM weight_sample")
	return err
}
