package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TrackRepository handles track database operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

// Upsert inserts a track, doing nothing if the ID already exists. The owning
// album and the main artist rows must already be persisted.
func (r *TrackRepository) Upsert(ctx context.Context, track *Track) error {
	query := `
		INSERT INTO tracks (id, name, disc_number, duration_ms, is_explicit,
			popularity, track_number, is_local, album_id, main_artist_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		track.ID,
		track.Name,
		track.DiscNumber,
		track.DurationMs,
		track.Explicit,
		track.Popularity,
		track.TrackNumber,
		track.IsLocal,
		track.AlbumID,
		track.MainArtistID,
	)
	if err != nil {
		return fmt.Errorf("upserting track %s: %w", track.ID, err)
	}
	return nil
}

// FilterUnknown returns the subset of ids not present in the tracks table.
// An empty input returns an empty result without issuing a query.
func (r *TrackRepository) FilterUnknown(ctx context.Context, ids []string) ([]string, error) {
	return filterUnknown(ctx, r.pool, "tracks", ids)
}

// Exists reports whether a track with the given ID is persisted.
func (r *TrackRepository) Exists(ctx context.Context, id string) (bool, error) {
	return existsByID(ctx, r.pool, "tracks", id)
}

// LinkArtist records a track-artist association. Both rows must already
// exist.
func (r *TrackRepository) LinkArtist(ctx context.Context, trackID, artistID string) error {
	query := `
		INSERT INTO track_artists (track_id, artist_id)
		VALUES ($1, $2)
		ON CONFLICT (track_id, artist_id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, trackID, artistID); err != nil {
		return fmt.Errorf("linking track %s to artist %s: %w", trackID, artistID, err)
	}
	return nil
}
