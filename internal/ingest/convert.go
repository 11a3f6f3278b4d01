package ingest

import (
	"github.com/pmoura/playlog/internal/db"
	"github.com/pmoura/playlog/internal/spotify"
)

func artistRecord(a spotify.Artist) db.Artist {
	return db.Artist{
		ID:         a.ID,
		Name:       a.Name,
		Popularity: a.Popularity,
		Followers:  a.Followers,
		ImageSm:    a.Images.Small,
		ImageMd:    a.Images.Medium,
		ImageLg:    a.Images.Large,
	}
}

func albumRecord(a spotify.Album) db.Album {
	return db.Album{
		ID:           a.ID,
		Name:         a.Name,
		Label:        a.Label,
		Popularity:   a.Popularity,
		ReleaseDate:  a.ReleaseDate,
		TotalTracks:  a.TotalTracks,
		ImageSm:      a.Images.Small,
		ImageMd:      a.Images.Medium,
		ImageLg:      a.Images.Large,
		MainArtistID: mainArtist(a.Artists),
	}
}

func trackRecord(t spotify.Track, albumID string) db.Track {
	if albumID == "" {
		albumID = t.AlbumID
	}
	return db.Track{
		ID:           t.ID,
		Name:         t.Name,
		DiscNumber:   t.DiscNumber,
		DurationMs:   t.DurationMs,
		Explicit:     t.Explicit,
		Popularity:   t.Popularity,
		TrackNumber:  t.TrackNumber,
		IsLocal:      t.IsLocal,
		AlbumID:      albumID,
		MainArtistID: mainArtist(t.Artists),
	}
}

// mainArtist is the first artist in the source's artist list.
func mainArtist(refs []spotify.ArtistRef) string {
	if len(refs) == 0 {
		return ""
	}
	return refs[0].ID
}
