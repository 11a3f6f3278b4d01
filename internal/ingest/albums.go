package ingest

import (
	"context"

	"github.com/pmoura/playlog/internal/spotify"
)

// IngestAlbums fetches the given albums and persists them, their artists,
// genres, associations and full track listings, in dependency order:
// artists and genres first, then albums, then associations, then tracks.
// Input beyond the album batch ceiling is truncated with a warning.
func (s *Service) IngestAlbums(ctx context.Context, albumIDs []string) error {
	albumIDs = unique(albumIDs)
	if len(albumIDs) > spotify.MaxAlbumBatch {
		s.log.Warn("too many albums for one flow, truncating",
			"got", len(albumIDs), "ceiling", spotify.MaxAlbumBatch)
		albumIDs = albumIDs[:spotify.MaxAlbumBatch]
	}
	if len(albumIDs) == 0 {
		return nil
	}

	s.log.Info("fetching albums", "count", len(albumIDs))
	albums, err := s.catalog.FetchAlbums(ctx, albumIDs)
	if err != nil {
		return err
	}

	// Albums and their association rows may only be written once every
	// referenced artist exists.
	var artistIDs []string
	for _, album := range albums {
		for _, ref := range album.Artists {
			artistIDs = append(artistIDs, ref.ID)
		}
	}
	if err := s.ensureArtists(ctx, artistIDs); err != nil {
		return err
	}

	for _, album := range albums {
		if err := s.store.UpsertAlbum(ctx, albumRecord(album)); err != nil {
			s.log.Error("failed to upsert album", "album", album.ID, "error", err)
			continue
		}
		s.linkGenres(ctx, "album", album.ID, album.Genres, s.store.LinkAlbumGenre)
		for _, ref := range album.Artists {
			if err := s.store.LinkAlbumArtist(ctx, album.ID, ref.ID); err != nil {
				s.log.Error("failed to link album artist",
					"album", album.ID, "artist", ref.ID, "error", err)
			}
		}
	}

	// Track listings come embedded in the album response; only albums with
	// more tracks than one page holds cost extra fetches.
	for _, album := range albums {
		s.ingestAlbumTracks(ctx, album)
	}
	return nil
}

// ingestAlbumTracks walks an album's track listing page by page. A fetch
// failure mid-listing skips the remainder of that album only.
func (s *Service) ingestAlbumTracks(ctx context.Context, album spotify.Album) {
	page := album.Tracks
	for {
		s.upsertTracks(ctx, page.Items, album.ID)
		if !page.HasMore() {
			return
		}

		s.log.Info("fetching next track page", "album", album.ID, "offset", page.Offset+page.Limit)
		next, err := s.catalog.NextTrackPage(ctx, page)
		if err != nil {
			s.log.Error("failed to fetch track page, skipping rest of album",
				"album", album.ID, "error", err)
			return
		}
		page = next
	}
}

// upsertTracks persists one page of tracks. Each track's own artist list is
// checked against the store first: featured performers may not appear in
// the album's artist list, and their rows must exist before the track row
// and its association rows are written.
func (s *Service) upsertTracks(ctx context.Context, tracks []spotify.Track, albumID string) {
	var artistIDs []string
	for _, track := range tracks {
		for _, ref := range track.Artists {
			artistIDs = append(artistIDs, ref.ID)
		}
	}
	if err := s.ensureArtists(ctx, artistIDs); err != nil {
		s.log.Error("failed to resolve track artists, skipping page",
			"album", albumID, "error", err)
		return
	}

	for _, track := range tracks {
		if err := s.store.UpsertTrack(ctx, trackRecord(track, albumID)); err != nil {
			s.log.Error("failed to upsert track", "track", track.ID, "error", err)
			continue
		}
		for _, ref := range track.Artists {
			if err := s.store.LinkTrackArtist(ctx, track.ID, ref.ID); err != nil {
				s.log.Error("failed to link track artist",
					"track", track.ID, "artist", ref.ID, "error", err)
			}
		}
	}
}
