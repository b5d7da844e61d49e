package overrides

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Override is a user-chosen base name for one entity, keyed by its
// immutable registry ID. Type optionally records a learned type label.
type Override struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// Repository defines the persistence interface for naming overrides.
type Repository interface {
	// Get retrieves the override for a registry ID.
	// Returns ErrOverrideNotFound if none exists.
	Get(ctx context.Context, registryID string) (*Override, error)

	// Set stores or replaces the override for a registry ID.
	Set(ctx context.Context, registryID string, override Override) error

	// Delete removes the override for a registry ID.
	// Returns ErrOverrideNotFound if none exists.
	Delete(ctx context.Context, registryID string) error

	// All retrieves every stored override keyed by registry ID.
	All(ctx context.Context) (map[string]Override, error)

	// Count returns the number of stored overrides.
	Count(ctx context.Context) (int, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get retrieves the override for a registry ID.
func (r *SQLiteRepository) Get(ctx context.Context, registryID string) (*Override, error) {
	var (
		name string
		typ  sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT name, type_override FROM naming_overrides WHERE registry_id = ?`, registryID,
	).Scan(&name, &typ)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("querying override: %w", err)
	}
	return &Override{Name: name, Type: typ.String}, nil
}

// Set stores or replaces the override for a registry ID.
func (r *SQLiteRepository) Set(ctx context.Context, registryID string, override Override) error {
	var typ any
	if override.Type != "" {
		typ = override.Type
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO naming_overrides (registry_id, name, type_override, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(registry_id) DO UPDATE SET
			name = excluded.name,
			type_override = excluded.type_override,
			updated_at = excluded.updated_at`,
		registryID, override.Name, typ, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing override: %w", err)
	}
	return nil
}

// Delete removes the override for a registry ID.
func (r *SQLiteRepository) Delete(ctx context.Context, registryID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM naming_overrides WHERE registry_id = ?`, registryID,
	)
	if err != nil {
		return fmt.Errorf("deleting override: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if rows == 0 {
		return ErrOverrideNotFound
	}
	return nil
}

// All retrieves every stored override keyed by registry ID.
func (r *SQLiteRepository) All(ctx context.Context) (map[string]Override, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT registry_id, name, type_override FROM naming_overrides`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing overrides: %w", err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cursor

	all := make(map[string]Override)
	for rows.Next() {
		var (
			registryID, name string
			typ              sql.NullString
		)
		if err := rows.Scan(&registryID, &name, &typ); err != nil {
			return nil, fmt.Errorf("scanning override: %w", err)
		}
		all[registryID] = Override{Name: name, Type: typ.String}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating overrides: %w", err)
	}
	return all, nil
}

// Count returns the number of stored overrides.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM naming_overrides`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting overrides: %w", err)
	}
	return count, nil
}
