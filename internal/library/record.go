package library

import (
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/tags"
)

// MusicRecord is the fully computed cache entry for one audio file.
// Optional tag fields are nil when the source tags lack them.
type MusicRecord struct {
	Artist      *string                 `json:"artist,omitempty"`
	Album       *string                 `json:"album,omitempty"`
	Title       *string                 `json:"title,omitempty"`
	Genre       *string                 `json:"genre,omitempty"`
	Year        *int                    `json:"year,omitempty"`
	DiscNum     *int                    `json:"disc_num,omitempty"`
	DiscTotal   *int                    `json:"disc_total,omitempty"`
	TrackNum    *int                    `json:"track_num,omitempty"`
	TrackTotal  *int                    `json:"track_total,omitempty"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	ContentHash string                  `json:"content_hash"`
}

// NewMusicRecord combines extracted tags with the computed hash and fingerprint.
func NewMusicRecord(t tags.Tags, fp fingerprint.Fingerprint, contentHash string) MusicRecord {
	return MusicRecord{
		Artist:      t.Artist,
		Album:       t.Album,
		Title:       t.Title,
		Genre:       t.Genre,
		Year:        t.Year,
		DiscNum:     t.DiscNum,
		DiscTotal:   t.DiscTotal,
		TrackNum:    t.TrackNum,
		TrackTotal:  t.TrackTotal,
		Fingerprint: fp,
		ContentHash: contentHash,
	}
}

// ArtistOrEmpty returns the artist or "" when absent.
func (r MusicRecord) ArtistOrEmpty() string {
	if r.Artist == nil {
		return ""
	}
	return *r.Artist
}

// TitleOrEmpty returns the title or "" when absent.
func (r MusicRecord) TitleOrEmpty() string {
	if r.Title == nil {
		return ""
	}
	return *r.Title
}
