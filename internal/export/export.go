// Package export reads Spotify extended streaming history exports: a
// directory of JSON files, each holding an ordered list of play records.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// trackURIPrefix prefixes the track reference of every music record.
// Records with a different or missing URI are non-track items (podcasts,
// local files) and are skipped by the caller.
const trackURIPrefix = "spotify:track:"

// Record is one play event from the extended history export.
type Record struct {
	Timestamp   time.Time `json:"ts"`
	MsPlayed    int       `json:"ms_played"`
	TrackURI    *string   `json:"spotify_track_uri"`
	ReasonStart *string   `json:"reason_start"`
	ReasonEnd   *string   `json:"reason_end"`
	Skipped     *bool     `json:"skipped"`
	Shuffle     *bool     `json:"shuffle"`
}

// TrackID returns the bare track ID, stripping the URI prefix.
// The second return is false for non-track records.
func (r Record) TrackID() (string, bool) {
	if r.TrackURI == nil || !strings.HasPrefix(*r.TrackURI, trackURIPrefix) {
		return "", false
	}
	return strings.TrimPrefix(*r.TrackURI, trackURIPrefix), true
}

// LoadDir reads every *.json file in dir, in name order, and concatenates
// their records into a single list.
func LoadDir(dir string) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading export directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var records []Record
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading export file %s: %w", path, err)
		}

		var fileRecords []Record
		if err := json.Unmarshal(data, &fileRecords); err != nil {
			return nil, fmt.Errorf("parsing export file %s: %w", path, err)
		}
		records = append(records, fileRecords...)
	}
	return records, nil
}
