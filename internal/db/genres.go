package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GenreRepository handles genre database operations. Genres are created
// lazily on first use and looked up by name thereafter.
type GenreRepository struct {
	pool *pgxpool.Pool
}

// IDByName returns the surrogate ID for a genre name.
// Returns ErrNotFound if the genre has not been created yet.
func (r *GenreRepository) IDByName(ctx context.Context, name string) (int, error) {
	query := `SELECT id FROM genres WHERE name = $1`

	var id int
	err := r.pool.QueryRow(ctx, query, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("querying genre %q: %w", name, err)
	}
	return id, nil
}

// FindOrCreate returns the ID for a genre name, creating the row if absent.
// The insert is idempotent and the lookup is re-run when the insert
// conflicts, so a lost duplicate-name race degrades to the re-lookup
// returning the winner's ID. With a single sequential writer this never
// needs a spanning transaction.
func (r *GenreRepository) FindOrCreate(ctx context.Context, name string) (int, error) {
	id, err := r.IDByName(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return 0, err
	}

	insert := `
		INSERT INTO genres (name)
		VALUES ($1)
		ON CONFLICT (name) DO NOTHING
		RETURNING id
	`
	err = r.pool.QueryRow(ctx, insert, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		// Insert was a no-op, the row appeared since our lookup.
		return r.IDByName(ctx, name)
	}
	if err != nil {
		return 0, fmt.Errorf("inserting genre %q: %w", name, err)
	}
	return id, nil
}
