package spotify

import (
	"context"
	"net/url"
	"strings"
)

type wireArtist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Popularity *int   `json:"popularity"`
	Followers  struct {
		Total *int64 `json:"total"`
	} `json:"followers"`
	Genres []string    `json:"genres"`
	Images []wireImage `json:"images"`
}

func convertArtist(w wireArtist) Artist {
	return Artist{
		ID:         w.ID,
		Name:       w.Name,
		Popularity: w.Popularity,
		Followers:  w.Followers.Total,
		Genres:     w.Genres,
		Images:     imageSet(w.Images),
	}
}

// FetchArtists retrieves up to MaxArtistBatch artists in one call. Oversized
// input is truncated with a warning rather than rejected.
func (c *Client) FetchArtists(ctx context.Context, ids []string) ([]Artist, error) {
	const op = "fetch artists"

	ids = c.capBatch(op, ids, MaxArtistBatch)
	if len(ids) == 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))

	var resp struct {
		Artists []wireArtist `json:"artists"`
	}
	if err := c.get(ctx, op, "/artists", query, &resp); err != nil {
		return nil, err
	}

	artists := make([]Artist, 0, len(resp.Artists))
	for _, w := range resp.Artists {
		if w.ID == "" {
			// Unknown ids come back as null entries.
			continue
		}
		artists = append(artists, convertArtist(w))
	}
	return artists, nil
}
