package spotify

import (
	"context"
	"net/url"
	"strings"
)

type wireTrack struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DiscNumber  int    `json:"disc_number"`
	DurationMs  int    `json:"duration_ms"`
	Explicit    bool   `json:"explicit"`
	Popularity  *int   `json:"popularity"`
	TrackNumber int    `json:"track_number"`
	IsLocal     bool   `json:"is_local"`
	Album       struct {
		ID string `json:"id"`
	} `json:"album"`
	Artists []wireArtistRef `json:"artists"`
}

// convertTrack maps a wire track to a Track. albumID overrides the embedded
// album reference for tracks sourced from an album listing, which carry no
// album object of their own.
func convertTrack(w wireTrack, albumID string) Track {
	if albumID == "" {
		albumID = w.Album.ID
	}
	refs := artistRefs(w.Artists)
	return Track{
		ID:          w.ID,
		Name:        w.Name,
		DiscNumber:  w.DiscNumber,
		DurationMs:  w.DurationMs,
		Explicit:    w.Explicit,
		Popularity:  w.Popularity,
		TrackNumber: w.TrackNumber,
		IsLocal:     w.IsLocal,
		AlbumID:     albumID,
		Artists:     refs,
	}
}

// FetchTracks retrieves up to MaxTrackBatch tracks in one call. Oversized
// input is truncated with a warning rather than rejected. Tracks fetched
// this way carry their popularity score.
func (c *Client) FetchTracks(ctx context.Context, ids []string) ([]Track, error) {
	const op = "fetch tracks"

	ids = c.capBatch(op, ids, MaxTrackBatch)
	if len(ids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))

	var resp struct {
		Tracks []wireTrack `json:"tracks"`
	}
	if err := c.get(ctx, op, "/tracks", query, &resp); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(resp.Tracks))
	for _, w := range resp.Tracks {
		if w.ID == "" {
			continue
		}
		tracks = append(tracks, convertTrack(w, ""))
	}
	return tracks, nil
}
