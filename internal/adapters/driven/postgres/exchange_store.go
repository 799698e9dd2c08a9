package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ExchangeStore = (*ExchangeStore)(nil)

// ExchangeStore implements driven.ExchangeStore using PostgreSQL
type ExchangeStore struct {
	db *DB
}

// NewExchangeStore creates a new ExchangeStore
func NewExchangeStore(db *DB) *ExchangeStore {
	return &ExchangeStore{db: db}
}

const exchangeColumns = `id, index_name, partition_number, status, pairs, pages, digest, error, started_at, finished_at`

// Save creates or updates an exchange record
func (s *ExchangeStore) Save(ctx context.Context, ex *domain.Exchange) error {
	query := `
		INSERT INTO exchanges (` + exchangeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			pairs = EXCLUDED.pairs,
			pages = EXCLUDED.pages,
			digest = EXCLUDED.digest,
			error = EXCLUDED.error,
			finished_at = EXCLUDED.finished_at
	`

	_, err := s.db.ExecContext(ctx, query,
		ex.ID,
		ex.Index,
		ex.Partition,
		string(ex.Status),
		ex.Pairs,
		ex.Pages,
		ex.Digest,
		ex.Error,
		ex.StartedAt,
		NullTime(ex.FinishedAt),
	)
	return err
}

// Get retrieves an exchange by ID
func (s *ExchangeStore) Get(ctx context.Context, id string) (*domain.Exchange, error) {
	query := `SELECT ` + exchangeColumns + ` FROM exchanges WHERE id = $1`

	ex, err := scanExchange(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// List retrieves exchanges filtered by index, newest first.
// An empty index means all indexes.
func (s *ExchangeStore) List(ctx context.Context, index string, limit int) ([]*domain.Exchange, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + exchangeColumns + ` FROM exchanges`
	args := []interface{}{}
	if index != "" {
		query += ` WHERE index_name = $1`
		args = append(args, index)
	}
	query += fmt.Sprintf(` ORDER BY started_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exchanges []*domain.Exchange
	for rows.Next() {
		ex, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return exchanges, nil
}

// Latest retrieves the most recent exchange for an index partition
func (s *ExchangeStore) Latest(ctx context.Context, index string, partition int64) (*domain.Exchange, error) {
	query := `
		SELECT ` + exchangeColumns + `
		FROM exchanges
		WHERE index_name = $1 AND partition_number = $2
		ORDER BY started_at DESC
		LIMIT 1
	`

	ex, err := scanExchange(s.db.QueryRowContext(ctx, query, index, partition))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// Stats aggregates exchange counts by status
func (s *ExchangeStore) Stats(ctx context.Context) (*domain.ExchangeStats, error) {
	query := `SELECT status, COUNT(*) FROM exchanges GROUP BY status`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &domain.ExchangeStats{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.Total += count
		switch domain.ExchangeStatus(status) {
		case domain.ExchangeStatusRunning:
			stats.Running = count
		case domain.ExchangeStatusCompleted:
			stats.Completed = count
		case domain.ExchangeStatusFailed:
			stats.Failed = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stats, nil
}

// Purge removes finished exchanges older than the given number of days.
// Running exchanges are never purged.
func (s *ExchangeStore) Purge(ctx context.Context, olderThanDays int) (int, error) {
	query := `
		DELETE FROM exchanges
		WHERE status != $1
		  AND started_at < NOW() - ($2 * INTERVAL '1 day')
	`

	result, err := s.db.ExecContext(ctx, query, string(domain.ExchangeStatusRunning), olderThanDays)
	if err != nil {
		return 0, err
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(purged), nil
}

// scanner covers both sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExchange(row scanner) (*domain.Exchange, error) {
	var ex domain.Exchange
	var finishedAt sql.NullTime

	err := row.Scan(
		&ex.ID,
		&ex.Index,
		&ex.Partition,
		&ex.Status,
		&ex.Pairs,
		&ex.Pages,
		&ex.Digest,
		&ex.Error,
		&ex.StartedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}

	ex.FinishedAt = TimePtr(finishedAt)
	return &ex, nil
}
