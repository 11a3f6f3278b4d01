package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ArtistRepository handles artist database operations.
type ArtistRepository struct {
	pool *pgxpool.Pool
}

// Upsert inserts an artist, doing nothing if the ID already exists.
func (r *ArtistRepository) Upsert(ctx context.Context, artist *Artist) error {
	query := `
		INSERT INTO artists (id, name, popularity, followers, image_sm, image_md, image_lg)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		artist.ID,
		artist.Name,
		artist.Popularity,
		artist.Followers,
		artist.ImageSm,
		artist.ImageMd,
		artist.ImageLg,
	)
	if err != nil {
		return fmt.Errorf("upserting artist %s: %w", artist.ID, err)
	}
	return nil
}

// FilterUnknown returns the subset of ids not present in the artists table.
// An empty input returns an empty result without issuing a query.
func (r *ArtistRepository) FilterUnknown(ctx context.Context, ids []string) ([]string, error) {
	return filterUnknown(ctx, r.pool, "artists", ids)
}

// Exists reports whether an artist with the given ID is persisted.
func (r *ArtistRepository) Exists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.pool, "artists", id)
}

// LinkGenre records a many-to-many association between an artist and a
// genre. The artist and genre rows must already exist.
func (r *ArtistRepository) LinkGenre(ctx context.Context, artistID string, genreID int) error {
	query := `
		INSERT INTO artist_genres (artist_id, genre_id)
		VALUES ($1, $2)
		ON CONFLICT (artist_id, genre_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, artistID, genreID); err != nil {
		return fmt.Errorf("linking artist %s to genre %d: %w", artistID, genreID, err)
	}
	return nil
}
