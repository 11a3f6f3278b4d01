package spotify

// ImageSet holds the up-to-three image URLs for an entity, assigned by
// ascending height. With fewer than three source images only the smaller
// slots are populated.
type ImageSet struct {
	Small  *string
	Medium *string
	Large  *string
}

// ArtistRef is the minimal artist reference embedded in album and track
// responses. The first entry of an artist list is the main artist.
type ArtistRef struct {
	ID   string
	Name string
}

// Artist is a fully-fetched artist record.
type Artist struct {
	ID         string
	Name       string
	Popularity *int
	Followers  *int64
	Genres     []string
	Images     ImageSet
}

// Album is a fully-fetched album record with its embedded first page of
// tracks. ReleaseDate is already normalized to full YYYY-MM-DD.
type Album struct {
	ID          string
	Name        string
	Label       *string
	Popularity  *int
	ReleaseDate string
	TotalTracks int
	Images      ImageSet
	Artists     []ArtistRef
	Genres      []string
	Tracks      TrackPage
}

// Track is a track record. Popularity is nil when the track was sourced
// from an album listing rather than a direct lookup.
type Track struct {
	ID          string
	Name        string
	DiscNumber  int
	DurationMs  int
	Explicit    bool
	Popularity  *int
	TrackNumber int
	IsLocal     bool
	AlbumID     string
	Artists     []ArtistRef
}

// TrackPage is one page of an album's track listing plus the cursor state
// needed to request the remainder.
type TrackPage struct {
	AlbumID string
	Items   []Track
	Limit   int
	Offset  int
	Total   int
	Next    string
}

// HasMore reports whether another page can be fetched after this one.
func (p TrackPage) HasMore() bool {
	return p.Next != ""
}

// PlayedItem is one entry of the recently-played feed.
type PlayedItem struct {
	Track    Track
	PlayedAt string // RFC3339, as reported by the feed
	Context  *string
}
