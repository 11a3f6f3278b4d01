package spotify

import "sort"

// wireImage is an image descriptor as the API reports it.
type wireImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// wireArtistRef is the embedded artist reference in album/track payloads.
type wireArtistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// imageSet sorts descriptors by height and assigns them small to large.
func imageSet(images []wireImage) ImageSet {
	sorted := make([]wireImage, len(images))
	copy(sorted, images)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Height < sorted[j].Height
	})

	var set ImageSet
	if len(sorted) > 0 {
		set.Small = &sorted[0].URL
	}
	if len(sorted) > 1 {
		set.Medium = &sorted[1].URL
	}
	if len(sorted) > 2 {
		set.Large = &sorted[2].URL
	}
	return set
}

// normalizeReleaseDate pads a release date to full YYYY-MM-DD:
// precision "year" turns "1994" into "1994-01-01", precision "month" turns
// "1994-01" into "1994-01-01", and day precision passes through.
func normalizeReleaseDate(precision, date string) string {
	switch precision {
	case "year":
		return date + "-01-01"
	case "month":
		return date + "-01"
	default:
		return date
	}
}

func artistRefs(refs []wireArtistRef) []ArtistRef {
	out := make([]ArtistRef, len(refs))
	for i, r := range refs {
		out[i] = ArtistRef{ID: r.ID, Name: r.Name}
	}
	return out
}
