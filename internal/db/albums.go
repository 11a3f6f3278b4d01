package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AlbumRepository handles album database operations.
type AlbumRepository struct {
	pool *pgxpool.Pool
}

// Upsert inserts an album, doing nothing if the ID already exists. The main
// artist row must already be persisted.
func (r *AlbumRepository) Upsert(ctx context.Context, album *Album) error {
	query := `
		INSERT INTO albums (id, name, label, popularity, release_date, total_tracks,
			image_sm, image_md, image_lg, main_artist_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		album.ID,
		album.Name,
		album.Label,
		album.Popularity,
		album.ReleaseDate,
		album.TotalTracks,
		album.ImageSm,
		album.ImageMd,
		album.ImageLg,
		album.MainArtistID,
	)
	if err != nil {
		return fmt.Errorf("upserting album %s: %w", album.ID, err)
	}
	return nil
}

// FilterUnknown returns the subset of ids not present in the albums table.
// An empty input returns an empty result without issuing a query.
func (r *AlbumRepository) FilterUnknown(ctx context.Context, ids []string) ([]string, error) {
	return filterUnknown(ctx, r.pool, "albums", ids)
}

// Exists reports whether an album with the given ID is persisted.
func (r *AlbumRepository) Exists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.pool, "albums", id)
}

// LinkArtist records an album-artist association. Both rows must already
// exist.
func (r *AlbumRepository) LinkArtist(ctx context.Context, albumID, artistID string) error {
	query := `
		INSERT INTO album_artists (album_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (album_id, artist_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, albumID, artistID); err != nil {
		return fmt.Errorf("linking album %s to artist %s: %w", albumID, artistID, err)
	}
	return nil
}

// LinkGenre records an album-genre association. Both rows must already
// exist.
func (r *AlbumRepository) LinkGenre(ctx context.Context, albumID string, genreID int) error {
	query := `
		INSERT INTO album_genres (album_id, genre_id)
		VALUES ($1, $2)
		ON CONFLICT (album_id, genre_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, albumID, genreID); err != nil {
		return fmt.Errorf("linking album %s to genre %d: %w", albumID, genreID, err)
	}
	return nil
}
