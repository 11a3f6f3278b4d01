package ingest

import (
	"context"

	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/export"
	"github.com/pmoura/playlog/internal/spotify"
)

const (
	// historyChunkSize is how many export records are examined per
	// unknown-track lookup.
	historyChunkSize = 10

	// flushThreshold is how many unknown track IDs accumulate before a
	// flush through IngestTracks. Deliberately below the track batch
	// ceiling: a chunk can push the buffer past the threshold, and
	// under-filled fetch batches are preferred over exact-batch
	// bookkeeping.
	flushThreshold = 40
)

// BulkResult summarizes a bulk-history ingestion run.
type BulkResult struct {
	Inserted int
	Skipped  int
	Failed   int
}

// IngestBulkHistory ingests an extended streaming-history export. A first
// pass resolves every referenced track into the store, buffering unknown
// track IDs across input chunks and flushing the buffer through
// IngestTracks when it fills; a second pass inserts the play events, with
// one targeted re-ingest and retry when a track row turns out to be
// missing.
func (s *Service) IngestBulkHistory(ctx context.Context, records []export.Record) (*BulkResult, error) {
	s.log.Info("ingesting bulk history", "records", len(records))

	if err := s.resolveExportTracks(ctx, records); err != nil {
		return nil, err
	}
	return s.insertExportEvents(ctx, records)
}

// resolveExportTracks is the first pass: make every track referenced by the
// export known to the store.
func (s *Service) resolveExportTracks(ctx context.Context, records []export.Record) error {
	var pending []string
	buffered := make(map[string]struct{})

	flush := func() error {
		if len(pending) == 0 {
			return nil
		}
		for _, batch := range chunk(pending, spotify.MaxTrackBatch) {
			if err := s.IngestTracks(ctx, batch); err != nil {
				return err
			}
		}
		pending = nil
		clear(buffered)
		return s.pause(ctx)
	}

	for start := 0; start < len(records); start += historyChunkSize {
		end := start + historyChunkSize
		if end > len(records) {
			end = len(records)
		}

		var ids []string
		for _, record := range records[start:end] {
			id, ok := record.TrackID()
			if !ok {
				s.log.Warn("export record without track reference, skipping",
					"played_at", record.Timestamp)
				continue
			}
			ids = append(ids, id)
		}

		unknown, err := s.store.UnknownTracks(ctx, unique(ids))
		if err != nil {
			return err
		}
		for _, id := range unknown {
			if _, ok := buffered[id]; ok {
				continue
			}
			buffered[id] = struct{}{}
			pending = append(pending, id)
		}

		if len(pending) >= flushThreshold {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	return flush()
}

// insertExportEvents is the second pass: insert one play event per record,
// skipping events already present. An insert failure is treated as a
// possibly-missing track row: the track is re-ingested once and the insert
// retried exactly once before the record is given up on.
func (s *Service) insertExportEvents(ctx context.Context, records []export.Record) (*BulkResult, error) {
	result := &BulkResult{}
	for _, record := range records {
		trackID, ok := record.TrackID()
		if !ok {
			result.Skipped++
			continue
		}

		present, err := s.store.PlayEventExists(ctx, record.Timestamp, trackID)
		if err != nil {
			return nil, err
		}
		if present {
			result.Skipped++
			continue
		}

		event := exportEvent(record, trackID)
		if err := s.store.InsertPlayEvent(ctx, event); err == nil {
			result.Inserted++
			continue
		} else {
			s.log.Warn("play event insert failed, re-ingesting track",
				"track", trackID, "error", err)
		}

		if err := s.IngestTracks(ctx, []string{trackID}); err != nil {
			s.log.Error("targeted track re-ingest failed", "track", trackID, "error", err)
			result.Failed++
			continue
		}
		if err := s.store.InsertPlayEvent(ctx, event); err != nil {
			s.log.Error("play event insert failed after re-ingest, giving up",
				"track", trackID, "error", err)
			result.Failed++
			continue
		}
		result.Inserted++
	}

	s.log.Info("bulk history ingested",
		"inserted", result.Inserted, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func exportEvent(record export.Record, trackID string) db.PlayEvent {
	return db.PlayEvent{
		PlayedAt:    record.Timestamp,
		MsPlayed:    record.MsPlayed,
		TrackID:     trackID,
		ReasonStart: record.ReasonStart,
		ReasonEnd:   record.ReasonEnd,
		Skipped:     record.Skipped,
		Shuffle:     record.Shuffle,
	}
}
