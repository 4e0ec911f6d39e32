package participant

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"weighin/internal/adapters/storage"
	domain "weighin/internal/domain/participant"
)

// dateFormat is the civil date layout stored in the join_date column.
const dateFormat = "2006-01-02"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new participant store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanParticipant(scan func(dest ...any) error) (domain.Participant, error) {
	var entity domain.Participant
	var joinDate string
	err := scan(
		&entity.ID,
		&entity.Name,
		&entity.StartWeight,
		&joinDate,
		&entity.Status,
	)
	if err != nil {
		return domain.Participant{}, err
	}
	entity.JoinDate, err = time.ParseInLocation(dateFormat, joinDate, time.UTC)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("failed to parse join_date: %w", err)
	}
	return entity, nil
}

// GetByID retrieves a Participant by its ID.
// PRE: id is non-zero
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (domain.Participant, error) {
	query := "SELECT id, name, start_weight, join_date, status FROM participant WHERE id = ?"

	row := s.db.QueryRowContext(ctx, query, id)
	entity, err := scanParticipant(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Participant{}, fmt.Errorf("%w: id %d", domain.ErrNotFound, id)
	}
	return entity, err
}

// Save persists a Participant to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Participant) error {
	query := `INSERT INTO participant (id, name, start_weight, join_date, status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			start_weight=excluded.start_weight,
			join_date=excluded.join_date,
			status=excluded.status`

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		entity.Name,
		entity.StartWeight,
		entity.JoinDate.Format(dateFormat),
		entity.Status,
	)
	return err
}

// Delete removes a Participant by ID.
// PRE: id is non-zero
// POST: Row is removed if it existed; the weight ledger cascade is the
// orchestrator's responsibility
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM participant WHERE id = ?", id)
	return err
}

// DeleteAll removes every participant. Used by the admin full reset.
func (s *SQLiteStore) DeleteAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM participant")
	return err
}

// List returns participants matching the filter in insertion (ID) order.
// The stable ID ordering is what makes leaderboard tie-breaking
// deterministic.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Participant, error) {
	query := "SELECT id, name, start_weight, join_date, status FROM participant"
	var args []any
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}
	query += " ORDER BY id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Participant
	for rows.Next() {
		entity, err := scanParticipant(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}

// Count returns the number of participants matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	query := "SELECT COUNT(*) FROM participant"
	var args []any
	if filter.Status != "" {
		query += " WHERE status = ?"
		args = append(args, filter.Status)
	}

	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
