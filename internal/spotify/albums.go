package spotify

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

type wireTrackPage struct {
	Items  []wireTrack `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
	Total  int         `json:"total"`
	Next   string      `json:"next"`
}

type wireAlbum struct {
	ID                   string          `json:"id"`
	Name                 string          `json:"name"`
	Label                *string         `json:"label"`
	Popularity           *int            `json:"popularity"`
	ReleaseDate          string          `json:"release_date"`
	ReleaseDatePrecision string          `json:"release_date_precision"`
	TotalTracks          int             `json:"total_tracks"`
	Images               []wireImage     `json:"images"`
	Artists              []wireArtistRef `json:"artists"`
	Genres               []string        `json:"genres"`
	Tracks               wireTrackPage   `json:"tracks"`
}

func convertTrackPage(w wireTrackPage, albumID string) TrackPage {
	items := make([]Track, 0, len(w.Items))
	for _, t := range w.Items {
		if t.ID == "" {
			continue
		}
		items = append(items, convertTrack(t, albumID))
	}
	return TrackPage{
		AlbumID: albumID,
		Items:   items,
		Limit:   w.Limit,
		Offset:  w.Offset,
		Total:   w.Total,
		Next:    w.Next,
	}
}

func convertAlbum(w wireAlbum) Album {
	return Album{
		ID:          w.ID,
		Name:        w.Name,
		Label:       w.Label,
		Popularity:  w.Popularity,
		ReleaseDate: normalizeReleaseDate(w.ReleaseDatePrecision, w.ReleaseDate),
		TotalTracks: w.TotalTracks,
		Images:      imageSet(w.Images),
		Artists:     artistRefs(w.Artists),
		Genres:      w.Genres,
		Tracks:      convertTrackPage(w.Tracks, w.ID),
	}
}

// FetchAlbums retrieves up to MaxAlbumBatch albums in one call, each
// carrying its embedded first page of tracks. Oversized input is truncated
// with a warning rather than rejected. When an album has more tracks than
// the first page holds, the returned page's cursor drives NextTrackPage.
func (c *Client) FetchAlbums(ctx context.Context, ids []string) ([]Album, error) {
	const op = "fetch albums"

	ids = c.capBatch(op, ids, MaxAlbumBatch)
	if len(ids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))

	var resp struct {
		Albums []wireAlbum `json:"albums"`
	}
	if err := c.get(ctx, op, "/albums", query, &resp); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(resp.Albums))
	for _, w := range resp.Albums {
		if w.ID == "" {
			continue
		}
		albums = append(albums, convertAlbum(w))
	}
	return albums, nil
}

// NextTrackPage fetches the page of an album's track listing that follows
// the given one.
func (c *Client) NextTrackPage(ctx context.Context, page TrackPage) (TrackPage, error) {
	const op = "fetch album track page"

	query := url.Values{}
	query.Set("limit", strconv.Itoa(MaxTrackBatch))
	query.Set("offset", strconv.Itoa(page.Offset+page.Limit))

	var resp wireTrackPage
	path := fmt.Sprintf("/albums/%s/tracks", page.AlbumID)
	if err := c.get(ctx, op, path, query, &resp); err != nil {
		return TrackPage{}, err
	}
	return convertTrackPage(resp, page.AlbumID), nil
}
