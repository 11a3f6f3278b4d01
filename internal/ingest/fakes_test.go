package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/spotify"
)

// fakeStore is an in-memory Store that enforces referential integrity the
// way the real schema does: a row referencing a missing parent is rejected,
// and writes that hit an existing unique key are no-ops.
type fakeStore struct {
	artists map[string]db.Artist
	albums  map[string]db.Album
	tracks  map[string]db.Track

	genreIDs     map[string]int
	albumArtists map[string]bool
	trackArtists map[string]bool
	artistGenres map[string]bool
	albumGenres  map[string]bool

	events map[string]db.PlayEvent

	// failEventOnce makes the next InsertPlayEvent for a track fail, once.
	failEventOnce map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		artists:       make(map[string]db.Artist),
		albums:        make(map[string]db.Album),
		tracks:        make(map[string]db.Track),
		genreIDs:      make(map[string]int),
		albumArtists:  make(map[string]bool),
		trackArtists:  make(map[string]bool),
		artistGenres:  make(map[string]bool),
		albumGenres:   make(map[string]bool),
		events:        make(map[string]db.PlayEvent),
		failEventOnce: make(map[string]bool),
	}
}

func eventKey(playedAt time.Time, trackID string) string {
	return playedAt.UTC().Format(time.RFC3339Nano) + "/" + trackID
}

func (f *fakeStore) UpsertArtist(_ context.Context, artist db.Artist) error {
	if _, ok := f.artists[artist.ID]; ok {
		return nil
	}
	f.artists[artist.ID] = artist
	return nil
}

func (f *fakeStore) UpsertAlbum(_ context.Context, album db.Album) error {
	if album.MainArtistID != "" {
		if _, ok := f.artists[album.MainArtistID]; !ok {
			return fmt.Errorf("album %s references missing artist %s", album.ID, album.MainArtistID)
		}
	}
	if _, ok := f.albums[album.ID]; ok {
		return nil
	}
	f.albums[album.ID] = album
	return nil
}

func (f *fakeStore) UpsertTrack(_ context.Context, track db.Track) error {
	if _, ok := f.albums[track.AlbumID]; !ok {
		return fmt.Errorf("track %s references missing album %s", track.ID, track.AlbumID)
	}
	if track.MainArtistID != "" {
		if _, ok := f.artists[track.MainArtistID]; !ok {
			return fmt.Errorf("track %s references missing artist %s", track.ID, track.MainArtistID)
		}
	}
	if _, ok := f.tracks[track.ID]; ok {
		return nil
	}
	f.tracks[track.ID] = track
	return nil
}

func (f *fakeStore) LinkAlbumArtist(_ context.Context, albumID, artistID string) error {
	if _, ok := f.albums[albumID]; !ok {
		return fmt.Errorf("link references missing album %s", albumID)
	}
	if _, ok := f.artists[artistID]; !ok {
		return fmt.Errorf("link references missing artist %s", artistID)
	}
	f.albumArtists[albumID+"/"+artistID] = true
	return nil
}

func (f *fakeStore) LinkTrackArtist(_ context.Context, trackID, artistID string) error {
	if _, ok := f.tracks[trackID]; !ok {
		return fmt.Errorf("link references missing track %s", trackID)
	}
	if _, ok := f.artists[artistID]; !ok {
		return fmt.Errorf("link references missing artist %s", artistID)
	}
	f.trackArtists[trackID+"/"+artistID] = true
	return nil
}

func (f *fakeStore) LinkArtistGenre(_ context.Context, artistID string, genreID int) error {
	if _, ok := f.artists[artistID]; !ok {
		return fmt.Errorf("link references missing artist %s", artistID)
	}
	f.artistGenres[artistID+"/"+strconv.Itoa(genreID)] = true
	return nil
}

func (f *fakeStore) LinkAlbumGenre(_ context.Context, albumID string, genreID int) error {
	if _, ok := f.albums[albumID]; !ok {
		return fmt.Errorf("link references missing album %s", albumID)
	}
	f.albumGenres[albumID+"/"+strconv.Itoa(genreID)] = true
	return nil
}

func (f *fakeStore) FindOrCreateGenre(_ context.Context, name string) (int, error) {
	if id, ok := f.genreIDs[name]; ok {
		return id, nil
	}
	id := len(f.genreIDs) + 1
	f.genreIDs[name] = id
	return id, nil
}

func (f *fakeStore) UnknownArtists(_ context.Context, ids []string) ([]string, error) {
	var unknown []string
	for _, id := range ids {
		if _, ok := f.artists[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

func (f *fakeStore) UnknownTracks(_ context.Context, ids []string) ([]string, error) {
	var unknown []string
	for _, id := range ids {
		if _, ok := f.tracks[id]; !ok {
			unknown = append(unknown, id)
		}
	}
	return unknown, nil
}

func (f *fakeStore) AlbumExists(_ context.Context, id string) (bool, error) {
	_, ok := f.albums[id]
	return ok, nil
}

func (f *fakeStore) InsertPlayEvent(_ context.Context, event db.PlayEvent) error {
	if f.failEventOnce[event.TrackID] {
		delete(f.failEventOnce, event.TrackID)
		return fmt.Errorf("simulated insert failure for track %s", event.TrackID)
	}
	if _, ok := f.tracks[event.TrackID]; !ok {
		return fmt.Errorf("event references missing track %s", event.TrackID)
	}
	key := eventKey(event.PlayedAt, event.TrackID)
	if _, ok := f.events[key]; ok {
		return nil
	}
	f.events[key] = event
	return nil
}

func (f *fakeStore) PlayEventExists(_ context.Context, playedAt time.Time, trackID string) (bool, error) {
	_, ok := f.events[eventKey(playedAt, trackID)]
	return ok, nil
}

// fakeCatalog serves fixtures and records the ID lists of every fetch so
// tests can assert on chunking and batch ceilings.
type fakeCatalog struct {
	t *testing.T

	artists map[string]spotify.Artist
	albums  map[string]spotify.Album
	tracks  map[string]spotify.Track
	pages   map[string][]spotify.TrackPage
	played  []spotify.PlayedItem

	artistCalls [][]string
	albumCalls  [][]string
	trackCalls  [][]string
}

func newFakeCatalog(t *testing.T) *fakeCatalog {
	return &fakeCatalog{
		t:       t,
		artists: make(map[string]spotify.Artist),
		albums:  make(map[string]spotify.Album),
		tracks:  make(map[string]spotify.Track),
		pages:   make(map[string][]spotify.TrackPage),
	}
}

func (c *fakeCatalog) FetchArtists(_ context.Context, ids []string) ([]spotify.Artist, error) {
	if len(ids) > spotify.MaxArtistBatch {
		c.t.Errorf("FetchArtists got %d ids, ceiling is %d", len(ids), spotify.MaxArtistBatch)
	}
	c.artistCalls = append(c.artistCalls, append([]string(nil), ids...))
	var out []spotify.Artist
	for _, id := range ids {
		if artist, ok := c.artists[id]; ok {
			out = append(out, artist)
		}
	}
	return out, nil
}

func (c *fakeCatalog) FetchAlbums(_ context.Context, ids []string) ([]spotify.Album, error) {
	if len(ids) > spotify.MaxAlbumBatch {
		c.t.Errorf("FetchAlbums got %d ids, ceiling is %d", len(ids), spotify.MaxAlbumBatch)
	}
	c.albumCalls = append(c.albumCalls, append([]string(nil), ids...))
	var out []spotify.Album
	for _, id := range ids {
		if album, ok := c.albums[id]; ok {
			out = append(out, album)
		}
	}
	return out, nil
}

func (c *fakeCatalog) FetchTracks(_ context.Context, ids []string) ([]spotify.Track, error) {
	if len(ids) > spotify.MaxTrackBatch {
		c.t.Errorf("FetchTracks got %d ids, ceiling is %d", len(ids), spotify.MaxTrackBatch)
	}
	c.trackCalls = append(c.trackCalls, append([]string(nil), ids...))
	var out []spotify.Track
	for _, id := range ids {
		if track, ok := c.tracks[id]; ok {
			out = append(out, track)
		}
	}
	return out, nil
}

func (c *fakeCatalog) NextTrackPage(_ context.Context, page spotify.TrackPage) (spotify.TrackPage, error) {
	remaining := c.pages[page.AlbumID]
	if len(remaining) == 0 {
		return spotify.TrackPage{}, fmt.Errorf("no further pages for album %s", page.AlbumID)
	}
	c.pages[page.AlbumID] = remaining[1:]
	return remaining[0], nil
}

func (c *fakeCatalog) RecentlyPlayed(_ context.Context, limit int) ([]spotify.PlayedItem, error) {
	if limit > spotify.MaxRecentlyPlayed {
		c.t.Errorf("RecentlyPlayed got limit %d, ceiling is %d", limit, spotify.MaxRecentlyPlayed)
	}
	return c.played, nil
}

func catArtist(id string, genres ...string) spotify.Artist {
	return spotify.Artist{ID: id, Name: "artist " + id, Genres: genres}
}

func catTrack(id, albumID string, artistIDs ...string) spotify.Track {
	refs := make([]spotify.ArtistRef, 0, len(artistIDs))
	for _, artistID := range artistIDs {
		refs = append(refs, spotify.ArtistRef{ID: artistID, Name: "artist " + artistID})
	}
	return spotify.Track{
		ID:          id,
		Name:        "track " + id,
		DiscNumber:  1,
		DurationMs:  180000,
		TrackNumber: 1,
		AlbumID:     albumID,
		Artists:     refs,
	}
}

// catAlbum builds an album fixture with its full track listing embedded in
// the first page.
func catAlbum(id string, artistIDs []string, tracks ...spotify.Track) spotify.Album {
	refs := make([]spotify.ArtistRef, 0, len(artistIDs))
	for _, artistID := range artistIDs {
		refs = append(refs, spotify.ArtistRef{ID: artistID, Name: "artist " + artistID})
	}
	return spotify.Album{
		ID:          id,
		Name:        "album " + id,
		ReleaseDate: "2020-06-01",
		TotalTracks: len(tracks),
		Artists:     refs,
		Tracks: spotify.TrackPage{
			AlbumID: id,
			Items:   tracks,
			Limit:   spotify.MaxTrackBatch,
			Offset:  0,
			Total:   len(tracks),
		},
	}
}

func newTestService(store *fakeStore, catalog *fakeCatalog) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(store, catalog, logger, WithFlushPause(0))
}
