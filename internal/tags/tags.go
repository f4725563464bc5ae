// Package tags extracts the shared optional-field metadata record from the
// recognized audio containers.
//
// Each format has its own extraction function:
//   - MP3 files are read with github.com/bogem/id3v2
//   - M4A files are read with github.com/dhowden/tag
//
// A missing field is a normal outcome and is left nil. Only an unreadable
// file (errkind.ErrIO) or a malformed container (errkind.ErrFormat) is an error.
package tags

import (
	"strconv"
	"strings"

	"song-deduper/internal/errkind"
)

// Tags is the metadata record shared by every format.
type Tags struct {
	Artist     *string
	Album      *string
	Title      *string
	Genre      *string
	Year       *int
	DiscNum    *int
	DiscTotal  *int
	TrackNum   *int
	TrackTotal *int
}

// Reader extracts tags from files on disk.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Read extracts tags from path using the rules for format.
func (r *Reader) Read(path string, format Format) (Tags, error) {
	switch format {
	case FormatMP3:
		return readID3(path)
	case FormatM4A:
		return readMP4(path)
	default:
		return Tags{}, errkind.New(errkind.ErrFormat, "extract tags", path)
	}
}

// optString returns nil for an empty value.
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// optInt returns nil for zero, which the tag libraries use for "unset".
func optInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseYear accepts only an all-digit date and keeps its first four digits,
// so "2004" and "20040501" yield 2004 while "2004-05-01" yields nil.
func parseYear(s string) *int {
	s = strings.TrimSpace(s)
	if !isDigits(s) {
		return nil
	}
	if len(s) > 4 {
		s = s[:4]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		return nil
	}
	return &n
}

// parseNumberPair parses "N" or "N/M" position fields. Anything else yields
// neither value.
func parseNumberPair(s string) (num, total *int) {
	s = strings.TrimSpace(s)
	if isDigits(s) {
		n, _ := strconv.Atoi(s)
		return &n, nil
	}
	left, right, ok := strings.Cut(s, "/")
	if !ok || !isDigits(left) || !isDigits(right) {
		return nil, nil
	}
	n, _ := strconv.Atoi(left)
	m, _ := strconv.Atoi(right)
	return &n, &m
}
