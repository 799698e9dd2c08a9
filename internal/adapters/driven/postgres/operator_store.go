package postgres

import (
	"context"
	"database/sql"

	"github.com/martinsumner/yokozuna/internal/core/domain"
	"github.com/martinsumner/yokozuna/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OperatorStore = (*OperatorStore)(nil)

// OperatorStore implements driven.OperatorStore using PostgreSQL
type OperatorStore struct {
	db *DB
}

// NewOperatorStore creates a new OperatorStore
func NewOperatorStore(db *DB) *OperatorStore {
	return &OperatorStore{db: db}
}

// Save creates or updates an operator
func (s *OperatorStore) Save(ctx context.Context, op *domain.Operator) error {
	query := `
		INSERT INTO operators (id, name, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			role = EXCLUDED.role
	`

	_, err := s.db.ExecContext(ctx, query,
		op.ID,
		op.Name,
		op.PasswordHash,
		string(op.Role),
		op.CreatedAt,
	)
	return err
}

// Get retrieves an operator by ID
func (s *OperatorStore) Get(ctx context.Context, id string) (*domain.Operator, error) {
	query := `
		SELECT id, name, password_hash, role, created_at
		FROM operators
		WHERE id = $1
	`
	return s.queryOne(ctx, query, id)
}

// GetByName retrieves an operator by name
func (s *OperatorStore) GetByName(ctx context.Context, name string) (*domain.Operator, error) {
	query := `
		SELECT id, name, password_hash, role, created_at
		FROM operators
		WHERE name = $1
	`
	return s.queryOne(ctx, query, name)
}

// List retrieves all operators
func (s *OperatorStore) List(ctx context.Context) ([]*domain.Operator, error) {
	query := `
		SELECT id, name, password_hash, role, created_at
		FROM operators
		ORDER BY created_at
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []*domain.Operator
	for rows.Next() {
		var op domain.Operator
		if err := rows.Scan(&op.ID, &op.Name, &op.PasswordHash, &op.Role, &op.CreatedAt); err != nil {
			return nil, err
		}
		operators = append(operators, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return operators, nil
}

// Delete deletes an operator
func (s *OperatorStore) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM operators WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *OperatorStore) queryOne(ctx context.Context, query string, arg interface{}) (*domain.Operator, error) {
	var op domain.Operator
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&op.ID,
		&op.Name,
		&op.PasswordHash,
		&op.Role,
		&op.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}
