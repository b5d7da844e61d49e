package typemap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the persistence interface for user type mappings.
// The store is a flat key-value table: lowercased type key -> label.
type Repository interface {
	// Get retrieves the label for a type key.
	// Returns ErrMappingNotFound if no mapping exists.
	Get(ctx context.Context, typeKey string) (string, error)

	// Set stores or replaces the label for a type key.
	Set(ctx context.Context, typeKey, label string) error

	// Delete removes the mapping for a type key.
	// Returns ErrMappingNotFound if no mapping exists.
	Delete(ctx context.Context, typeKey string) error

	// All retrieves every stored mapping.
	All(ctx context.Context) (map[string]string, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get retrieves the label for a type key.
func (r *SQLiteRepository) Get(ctx context.Context, typeKey string) (string, error) {
	var label string
	err := r.db.QueryRowContext(ctx,
		`SELECT label FROM user_type_mappings WHERE type_key = ?`, typeKey,
	).Scan(&label)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrMappingNotFound
		}
		return "", fmt.Errorf("querying type mapping: %w", err)
	}
	return label, nil
}

// Set stores or replaces the label for a type key.
func (r *SQLiteRepository) Set(ctx context.Context, typeKey, label string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_type_mappings (type_key, label, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(type_key) DO UPDATE SET label = excluded.label, updated_at = excluded.updated_at`,
		typeKey, label, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing type mapping: %w", err)
	}
	return nil
}

// Delete removes the mapping for a type key.
func (r *SQLiteRepository) Delete(ctx context.Context, typeKey string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM user_type_mappings WHERE type_key = ?`, typeKey,
	)
	if err != nil {
		return fmt.Errorf("deleting type mapping: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrMappingNotFound
	}
	return nil
}

// All retrieves every stored mapping.
func (r *SQLiteRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT type_key, label FROM user_type_mappings`)
	if err != nil {
		return nil, fmt.Errorf("listing type mappings: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	mappings := make(map[string]string)
	for rows.Next() {
		var key, label string
		if err := rows.Scan(&key, &label); err != nil {
			return nil, fmt.Errorf("scanning type mapping: %w", err)
		}
		mappings[key] = label
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating type mappings: %w", err)
	}
	return mappings, nil
}
