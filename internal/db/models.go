package db

import "time"

// Artist represents a Spotify artist.
type Artist struct {
	ID         string
	Name       string
	Popularity *int    // nullable, 0-100 when known
	Followers  *int64  // nullable
	ImageSm    *string // nullable
	ImageMd    *string // nullable
	ImageLg    *string // nullable
}

// Album represents a Spotify album. MainArtistID is the first artist in the
// album's artist list, kept as a denormalized convenience reference.
type Album struct {
	ID           string
	Name         string
	Label        *string // nullable
	Popularity   *int    // nullable
	ReleaseDate  string  // always full YYYY-MM-DD
	TotalTracks  int
	ImageSm      *string // nullable
	ImageMd      *string // nullable
	ImageLg      *string // nullable
	MainArtistID string
}

// Track represents a Spotify track. Popularity is nil when the track was
// sourced from an album listing rather than a direct track lookup.
type Track struct {
	ID           string
	Name         string
	DiscNumber   int
	DurationMs   int
	Explicit     bool
	Popularity   *int // nullable
	TrackNumber  int
	IsLocal      bool
	AlbumID      string
	MainArtistID string
}

// Genre is keyed by name; the integer ID is assigned by the store.
type Genre struct {
	ID   int
	Name string
}

// PlayEvent is one streaming-history row. (PlayedAt, TrackID) is the dedup
// key. Context is only set by the recently-played feed; ReasonStart,
// ReasonEnd, Skipped and Shuffle only by the extended-history export.
type PlayEvent struct {
	PlayedAt    time.Time
	MsPlayed    int
	TrackID     string
	Context     *string // nullable
	ReasonStart *string // nullable
	ReasonEnd   *string // nullable
	Skipped     *bool   // nullable
	Shuffle     *bool   // nullable
}
