package ingest

import (
	"context"

	"github.com/pmoura/playlog/internal/spotify"
)

// ensureArtists makes sure every given artist ID is persisted, fetching and
// upserting only the ones the store does not know yet.
func (s *Service) ensureArtists(ctx context.Context, ids []string) error {
	ids = unique(ids)
	if len(ids) == 0 {
		return nil
	}

	unknown, err := s.store.UnknownArtists(ctx, ids)
	if err != nil {
		return err
	}
	if len(unknown) == 0 {
		return nil
	}

	for _, batch := range chunk(unknown, spotify.MaxArtistBatch) {
		if err := s.fetchAndUpsertArtists(ctx, batch); err != nil {
			return err
		}
	}
	return nil
}

// fetchAndUpsertArtists fetches one ceiling-capped batch of artists and
// persists them with their genre associations. A failure on one record is
// logged and does not abort its siblings.
func (s *Service) fetchAndUpsertArtists(ctx context.Context, ids []string) error {
	s.log.Info("fetching artists", "count", len(ids))
	artists, err := s.catalog.FetchArtists(ctx, ids)
	if err != nil {
		return err
	}

	for _, artist := range artists {
		if err := s.store.UpsertArtist(ctx, artistRecord(artist)); err != nil {
			s.log.Error("failed to upsert artist", "artist", artist.ID, "error", err)
			continue
		}
		s.linkGenres(ctx, "artist", artist.ID, artist.Genres, s.store.LinkArtistGenre)
	}
	return nil
}

// linkGenres find-or-creates each genre by name and records the
// association. Failures are logged per genre; the rest continue.
func (s *Service) linkGenres(ctx context.Context, kind, entityID string, genres []string, link func(context.Context, string, int) error) {
	for _, name := range genres {
		genreID, err := s.store.FindOrCreateGenre(ctx, name)
		if err != nil {
			s.log.Error("failed to resolve genre", "genre", name, "error", err)
			continue
		}
		if err := link(ctx, entityID, genreID); err != nil {
			s.log.Error("failed to link genre", "kind", kind, "entity", entityID, "genre", name, "error", err)
		}
	}
}
