package tags

import (
	"path/filepath"
	"strings"

	"song-deduper/internal/errkind"
)

// Format identifies a recognized audio container.
type Format int

const (
	// FormatUnknown is any container without extraction rules.
	FormatUnknown Format = iota
	// FormatMP3 carries a simple ID3v2 frame tag.
	FormatMP3
	// FormatM4A is an MP4 container with iTunes-style metadata atoms.
	FormatM4A
)

var extensions = map[string]Format{
	".mp3": FormatMP3,
	".m4a": FormatM4A,
}

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "mp3"
	case FormatM4A:
		return "m4a"
	default:
		return "unknown"
	}
}

// FormatFor returns the format for path based on its extension, ignoring case.
// Unrecognized extensions are reported as errkind.ErrFormat.
func FormatFor(path string) (Format, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return f, nil
	}
	return FormatUnknown, errkind.New(errkind.ErrFormat, "detect format", path)
}

// IsAudio reports whether path has a recognized audio extension.
func IsAudio(path string) bool {
	_, ok := extensions[strings.ToLower(filepath.Ext(path))]
	return ok
}
