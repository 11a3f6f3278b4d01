package ingest

import (
	"context"

	"github.com/pmoura/playlog/internal/spotify"
)

// IngestTracks resolves the parent album of each given track and delegates
// to IngestAlbums, which persists the albums with their complete track
// listings. Input beyond the track batch ceiling is truncated with a
// warning.
func (s *Service) IngestTracks(ctx context.Context, trackIDs []string) error {
	trackIDs = unique(trackIDs)
	if len(trackIDs) > spotify.MaxTrackBatch {
		s.log.Warn("too many tracks for one flow, truncating",
			"got", len(trackIDs), "ceiling", spotify.MaxTrackBatch)
		trackIDs = trackIDs[:spotify.MaxTrackBatch]
	}
	if len(trackIDs) == 0 {
		return nil
	}

	s.log.Info("fetching tracks", "count", len(trackIDs))
	tracks, err := s.catalog.FetchTracks(ctx, trackIDs)
	if err != nil {
		return err
	}

	var albumIDs []string
	for _, track := range tracks {
		if track.AlbumID == "" {
			s.log.Warn("track has no album, skipping", "track", track.ID)
			continue
		}
		albumIDs = append(albumIDs, track.AlbumID)
	}

	for _, batch := range chunk(unique(albumIDs), spotify.MaxAlbumBatch) {
		if err := s.IngestAlbums(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}
