package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/spotify"
)

// RecentResult summarizes a recently-played ingestion run.
type RecentResult struct {
	Inserted int
	Skipped  int
}

// IngestRecentlyPlayed fetches the user's most recent play events and
// records them. An event whose album is unknown first pulls the whole
// album (artists, genres, tracks) through IngestAlbums, so the history row
// never references a missing track. Events already present are skipped.
func (s *Service) IngestRecentlyPlayed(ctx context.Context) (*RecentResult, error) {
	s.log.Info("fetching recently played")
	items, err := s.catalog.RecentlyPlayed(ctx, spotify.MaxRecentlyPlayed)
	if err != nil {
		return nil, err
	}

	result := &RecentResult{}
	for _, item := range items {
		if item.Track.AlbumID == "" {
			s.log.Error("no album on played track, skipping", "track", item.Track.ID)
			result.Skipped++
			continue
		}

		known, err := s.store.AlbumExists(ctx, item.Track.AlbumID)
		if err != nil {
			return nil, err
		}
		if !known {
			if err := s.IngestAlbums(ctx, []string{item.Track.AlbumID}); err != nil {
				return nil, fmt.Errorf("ingesting album %s for played track %s: %w",
					item.Track.AlbumID, item.Track.ID, err)
			}
		}

		playedAt, err := time.Parse(time.RFC3339, item.PlayedAt)
		if err != nil {
			s.log.Error("unparseable played_at, skipping",
				"track", item.Track.ID, "played_at", item.PlayedAt, "error", err)
			result.Skipped++
			continue
		}

		present, err := s.store.PlayEventExists(ctx, playedAt, item.Track.ID)
		if err != nil {
			return nil, err
		}
		if present {
			result.Skipped++
			continue
		}

		event := db.PlayEvent{
			PlayedAt: playedAt,
			MsPlayed: item.Track.DurationMs,
			TrackID:  item.Track.ID,
			Context:  item.Context,
		}
		if err := s.store.InsertPlayEvent(ctx, event); err != nil {
			s.log.Error("failed to insert play event",
				"track", item.Track.ID, "played_at", item.PlayedAt, "error", err)
			result.Skipped++
			continue
		}
		result.Inserted++
	}

	s.log.Info("recently played ingested", "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}
