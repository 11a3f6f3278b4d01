package spotify

import (
	"context"
	"net/url"
	"strconv"
)

type wirePlayedItem struct {
	Track    wireTrack `json:"track"`
	PlayedAt string    `json:"played_at"`
	Context  *struct {
		Type string `json:"type"`
	} `json:"context"`
}

// RecentlyPlayed retrieves the user's most recent play events, newest
// first. limit is clamped to MaxRecentlyPlayed.
func (c *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayedItem, error) {
	const op = "fetch recently played"

	if limit <= 0 || limit > MaxRecentlyPlayed {
		limit = MaxRecentlyPlayed
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))

	var resp struct {
		Items []wirePlayedItem `json:"items"`
	}
	if err := c.get(ctx, op, "/me/player/recently-played", query, &resp); err != nil {
		return nil, err
	}

	items := make([]PlayedItem, 0, len(resp.Items))
	for _, w := range resp.Items {
		item := PlayedItem{
			Track:    convertTrack(w.Track, ""),
			PlayedAt: w.PlayedAt,
		}
		if w.Context != nil && w.Context.Type != "" {
			contextType := w.Context.Type
			item.Context = &contextType
		}
		items = append(items, item)
	}
	return items, nil
}
