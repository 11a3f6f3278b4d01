package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// filterUnknown returns the subset of ids with no row in the given table,
// via a single set-difference query. The table name is always one of our own
// table constants, never user input.
func filterUnknown(ctx context.Context, pool *pgxpool.Pool, table string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT c.id
		FROM unnest($1::text[]) AS c(id)
		LEFT JOIN %s t ON t.id = c.id
		WHERE t.id IS NULL
	`, table)

	rows, err := pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("filtering unknown %s: %w", table, err)
	}
	defer rows.Close()

	var unknown []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning unknown %s id: %w", table, err)
		}
		unknown = append(unknown, id)
	}
	return unknown, rows.Err()
}

// existsByID reports whether a row with the given ID exists in the table.
func existsByID(ctx context.Context, pool *pgxpool.Pool, table string, id string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)

	var exists bool
	if err := pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking %s for %s: %w", table, id, err)
	}
	return exists, nil
}
