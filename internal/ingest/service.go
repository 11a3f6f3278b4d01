// Package ingest drives catalog and listening-history ingestion: resolve
// which entities are already persisted, fetch only the missing ones in
// capped batches, upsert in dependency order, then reconcile the two
// history feeds.
package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/spotify"
)

// DefaultFlushPause is the cooperative throttle between bulk-history
// flushes, keeping the run under upstream rate limits.
const DefaultFlushPause = 3 * time.Second

// Store is the persistence surface the orchestrator writes through. Every
// upsert and link is idempotent; a conflict on the unique key is a no-op.
type Store interface {
	UpsertArtist(ctx context.Context, artist db.Artist) error
	UpsertAlbum(ctx context.Context, album db.Album) error
	UpsertTrack(ctx context.Context, track db.Track) error

	LinkAlbumArtist(ctx context.Context, albumID, artistID string) error
	LinkTrackArtist(ctx context.Context, trackID, artistID string) error
	LinkArtistGenre(ctx context.Context, artistID string, genreID int) error
	LinkAlbumGenre(ctx context.Context, albumID string, genreID int) error
	FindOrCreateGenre(ctx context.Context, name string) (int, error)

	UnknownArtists(ctx context.Context, ids []string) ([]string, error)
	UnknownTracks(ctx context.Context, ids []string) ([]string, error)
	AlbumExists(ctx context.Context, id string) (bool, error)

	InsertPlayEvent(ctx context.Context, event db.PlayEvent) error
	PlayEventExists(ctx context.Context, playedAt time.Time, trackID string) (bool, error)
}

// Catalog is the fetch boundary. Implementations enforce the provider's
// batch ceilings; the orchestrator still chunks before every call, so the
// implementation's truncation is only a safety net.
type Catalog interface {
	FetchArtists(ctx context.Context, ids []string) ([]spotify.Artist, error)
	FetchAlbums(ctx context.Context, ids []string) ([]spotify.Album, error)
	FetchTracks(ctx context.Context, ids []string) ([]spotify.Track, error)
	NextTrackPage(ctx context.Context, page spotify.TrackPage) (spotify.TrackPage, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]spotify.PlayedItem, error)
}

// Service orchestrates the ingestion flows. Execution is single-writer and
// sequential; one fetch or write is in flight at a time.
type Service struct {
	store      Store
	catalog    Catalog
	log        *slog.Logger
	flushPause time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithFlushPause sets the pause inserted after each bulk-history flush.
func WithFlushPause(d time.Duration) Option {
	return func(s *Service) {
		s.flushPause = d
	}
}

// New creates an ingest service. Log lines carry a per-run ID so
// interleaved re-runs stay distinguishable.
func New(store Store, catalog Catalog, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		catalog:    catalog,
		log:        log.With("run", uuid.NewString()),
		flushPause: DefaultFlushPause,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// pause sleeps for the configured flush pause, returning early when the
// context is cancelled.
func (s *Service) pause(ctx context.Context) error {
	if s.flushPause <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.flushPause):
		return nil
	}
}
