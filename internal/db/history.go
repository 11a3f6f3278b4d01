package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// mergeTolerance is how far apart two timestamps for the same track may be
// while still describing the same physical listening event. The extended
// export rounds timestamps to whole seconds while the live feed keeps
// millisecond precision, so matching rows drift by under a second; 2s adds
// headroom for clock skew while staying far below any real repeat play.
const mergeTolerance = 2 * time.Second

// HistoryRepository handles streaming-history database operations.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// Insert records a play event. A second insert for the same
// (played_at, track_id) key is a silent no-op.
func (r *HistoryRepository) Insert(ctx context.Context, event *PlayEvent) error {
	query := `
		INSERT INTO streaming_history (played_at, ms_played, track_id, context,
			reason_start, reason_end, skipped, shuffle)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (played_at, track_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query,
		event.PlayedAt,
		event.MsPlayed,
		event.TrackID,
		event.Context,
		event.ReasonStart,
		event.ReasonEnd,
		event.Skipped,
		event.Shuffle,
	)
	if err != nil {
		return fmt.Errorf("inserting history event for track %s at %s: %w",
			event.TrackID, event.PlayedAt.Format(time.RFC3339), err)
	}
	return nil
}

// Exists reports whether a play event with the given dedup key is persisted.
func (r *HistoryRepository) Exists(ctx context.Context, playedAt time.Time, trackID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM streaming_history WHERE played_at = $1 AND track_id = $2
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, playedAt, trackID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking history for track %s: %w", trackID, err)
	}
	return exists, nil
}

// MergeOverlapping collapses play events reported by both the live
// recently-played feed and the extended export into one canonical row. Rows
// from the live feed carry no reason_start; when such a row sits within the
// tolerance window of an export row for the same track, the export row is
// the richer record and the live row is deleted. Idempotent, safe to re-run.
func (r *HistoryRepository) MergeOverlapping(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM streaming_history AS live
		USING streaming_history AS full_rec
		WHERE live.track_id = full_rec.track_id
		  AND live.reason_start IS NULL
		  AND full_rec.reason_start IS NOT NULL
		  AND live.played_at <> full_rec.played_at
		  AND abs(extract(epoch FROM (live.played_at - full_rec.played_at))) <= $1
	`
	tag, err := r.pool.Exec(ctx, query, mergeTolerance.Seconds())
	if err != nil {
		return 0, fmt.Errorf("merging overlapping history: %w", err)
	}
	return tag.RowsAffected(), nil
}
