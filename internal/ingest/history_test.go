package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/export"
)

func exportRecord(ts time.Time, trackID string) export.Record {
	uri := "spotify:track:" + trackID
	return export.Record{Timestamp: ts, MsPlayed: 30000, TrackURI: &uri}
}

func TestIngestBulkHistoryFlushesAtThreshold(t *testing.T) {
	store := newFakeStore()
	catalog := newFakeCatalog(t)
	catalog.artists["art1"] = catArtist("art1")

	// 45 unseen tracks, each on its own album, so the resolve pass buffers
	// ten unknown ids per chunk and flushes once the buffer reaches forty.
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var records []export.Record
	for i := 0; i < 45; i++ {
		trackID := fmt.Sprintf("trk%02d", i)
		albumID := fmt.Sprintf("alb%02d", i)
		catalog.tracks[trackID] = catTrack(trackID, albumID, "art1")
		catalog.albums[albumID] = catAlbum(albumID, []string{"art1"},
			catTrack(trackID, albumID, "art1"))
		records = append(records, exportRecord(base.Add(time.Duration(i)*time.Minute), trackID))
	}

	service := newTestService(store, catalog)
	result, err := service.IngestBulkHistory(context.Background(), records)
	if err != nil {
		t.Fatalf("IngestBulkHistory: %v", err)
	}

	if len(catalog.trackCalls) != 2 {
		t.Fatalf("track fetches = %d, want 2 flushes", len(catalog.trackCalls))
	}
	if got := len(catalog.trackCalls[0]); got != 40 {
		t.Errorf("first flush carried %d ids, want 40", got)
	}
	if got := len(catalog.trackCalls[1]); got != 5 {
		t.Errorf("final flush carried %d ids, want 5", got)
	}
	if result.Inserted != 45 || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("result = %+v, want 45 inserted", result)
	}
	if len(store.events) != 45 {
		t.Errorf("events = %d, want 45", len(store.events))
	}
}

func TestIngestBulkHistorySkipsKnownAndNonTrack(t *testing.T) {
	store := newFakeStore()
	catalog := newFakeCatalog(t)

	store.artists["art1"] = db.Artist{ID: "art1"}
	store.albums["alb1"] = db.Album{ID: "alb1", MainArtistID: "art1"}
	store.tracks["trk1"] = db.Track{ID: "trk1", AlbumID: "alb1", MainArtistID: "art1"}

	playedAt := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	store.events[eventKey(playedAt, "trk1")] = db.PlayEvent{PlayedAt: playedAt, TrackID: "trk1"}

	episodeURI := "spotify:episode:abc"
	records := []export.Record{
		exportRecord(playedAt, "trk1"),                              // already recorded
		exportRecord(playedAt.Add(time.Hour), "trk1"),               // new event, known track
		{Timestamp: playedAt, MsPlayed: 100, TrackURI: &episodeURI}, // non-track
		{Timestamp: playedAt, MsPlayed: 100},                        // no URI at all
	}

	service := newTestService(store, catalog)
	result, err := service.IngestBulkHistory(context.Background(), records)
	if err != nil {
		t.Fatalf("IngestBulkHistory: %v", err)
	}

	if result.Inserted != 1 || result.Skipped != 3 || result.Failed != 0 {
		t.Errorf("result = %+v, want 1 inserted, 3 skipped", result)
	}
	if len(catalog.trackCalls) != 0 {
		t.Errorf("nothing was unknown, yet tracks were fetched: %v", catalog.trackCalls)
	}
}

func TestIngestBulkHistoryRetriesAfterInsertFailure(t *testing.T) {
	store := newFakeStore()
	catalog := newFakeCatalog(t)

	store.artists["art1"] = db.Artist{ID: "art1"}
	store.albums["alb1"] = db.Album{ID: "alb1", MainArtistID: "art1"}
	store.tracks["trk1"] = db.Track{ID: "trk1", AlbumID: "alb1", MainArtistID: "art1"}
	store.failEventOnce["trk1"] = true

	catalog.artists["art1"] = catArtist("art1")
	catalog.tracks["trk1"] = catTrack("trk1", "alb1", "art1")
	catalog.albums["alb1"] = catAlbum("alb1", []string{"art1"},
		catTrack("trk1", "alb1", "art1"))

	playedAt := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	records := []export.Record{exportRecord(playedAt, "trk1")}

	service := newTestService(store, catalog)
	result, err := service.IngestBulkHistory(context.Background(), records)
	if err != nil {
		t.Fatalf("IngestBulkHistory: %v", err)
	}

	if result.Inserted != 1 || result.Failed != 0 {
		t.Errorf("result = %+v, want the insert to succeed on retry", result)
	}
	if len(catalog.trackCalls) != 1 {
		t.Errorf("track fetches = %d, want 1 targeted re-ingest", len(catalog.trackCalls))
	}
}

func TestIngestBulkHistoryPreservesExportFields(t *testing.T) {
	store := newFakeStore()
	catalog := newFakeCatalog(t)

	store.artists["art1"] = db.Artist{ID: "art1"}
	store.albums["alb1"] = db.Album{ID: "alb1", MainArtistID: "art1"}
	store.tracks["trk1"] = db.Track{ID: "trk1", AlbumID: "alb1", MainArtistID: "art1"}

	playedAt := time.Date(2023, 5, 1, 10, 0, 0, 0, time.UTC)
	reasonStart, reasonEnd := "clickrow", "trackdone"
	skipped, shuffle := false, true
	record := exportRecord(playedAt, "trk1")
	record.ReasonStart = &reasonStart
	record.ReasonEnd = &reasonEnd
	record.Skipped = &skipped
	record.Shuffle = &shuffle

	service := newTestService(store, catalog)
	if _, err := service.IngestBulkHistory(context.Background(), []export.Record{record}); err != nil {
		t.Fatalf("IngestBulkHistory: %v", err)
	}

	event, ok := store.events[eventKey(playedAt, "trk1")]
	if !ok {
		t.Fatal("event not recorded")
	}
	if event.ReasonStart == nil || *event.ReasonStart != "clickrow" {
		t.Errorf("reason_start = %v", event.ReasonStart)
	}
	if event.Shuffle == nil || !*event.Shuffle {
		t.Errorf("shuffle = %v", event.Shuffle)
	}
	if event.Context != nil {
		t.Error("export event carries a recently-played-only field")
	}
	if event.MsPlayed != 30000 {
		t.Errorf("ms_played = %d", event.MsPlayed)
	}
}
