package db

import (
	"context"
	"time"
)

// The methods below form the flat surface the ingest orchestrator depends
// on, delegating to the per-entity repositories.

func (db *DB) UpsertArtist(ctx context.Context, artist Artist) error {
	return db.Artists().Upsert(ctx, &artist)
}

func (db *DB) UpsertAlbum(ctx context.Context, album Album) error {
	return db.Albums().Upsert(ctx, &album)
}

func (db *DB) UpsertTrack(ctx context.Context, track Track) error {
	return db.Tracks().Upsert(ctx, &track)
}

func (db *DB) LinkAlbumArtist(ctx context.Context, albumID, artistID string) error {
	return db.Albums().LinkArtist(ctx, albumID, artistID)
}

func (db *DB) LinkTrackArtist(ctx context.Context, trackID, artistID string) error {
	return db.Tracks().LinkArtist(ctx, trackID, artistID)
}

func (db *DB) LinkArtistGenre(ctx context.Context, artistID string, genreID int) error {
	return db.Artists().LinkGenre(ctx, artistID, genreID)
}

func (db *DB) LinkAlbumGenre(ctx context.Context, albumID string, genreID int) error {
	return db.Albums().LinkGenre(ctx, albumID, genreID)
}

func (db *DB) FindOrCreateGenre(ctx context.Context, name string) (int, error) {
	return db.Genres().FindOrCreate(ctx, name)
}

func (db *DB) UnknownArtists(ctx context.Context, ids []string) ([]string, error) {
	return db.Artists().FilterUnknown(ctx, ids)
}

func (db *DB) UnknownTracks(ctx context.Context, ids []string) ([]string, error) {
	return db.Tracks().FilterUnknown(ctx, ids)
}

func (db *DB) AlbumExists(ctx context.Context, id string) (bool, error) {
	return db.Albums().Exists(ctx, id)
}

func (db *DB) TrackExists(ctx context.Context, id string) (bool, error) {
	return db.Tracks().Exists(ctx, id)
}

func (db *DB) InsertPlayEvent(ctx context.Context, event PlayEvent) error {
	return db.History().Insert(ctx, &event)
}

func (db *DB) PlayEventExists(ctx context.Context, playedAt time.Time, trackID string) (bool, error) {
	return db.History().Exists(ctx, playedAt, trackID)
}
