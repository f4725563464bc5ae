package tags

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"

	"song-deduper/internal/errkind"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"/music/a.mp3", FormatMP3, false},
		{"/music/A.MP3", FormatMP3, false},
		{"/music/b.m4a", FormatM4A, false},
		{"/music/b.M4a", FormatM4A, false},
		{"/music/c.flac", FormatUnknown, true},
		{"/music/noext", FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFor(tt.path)
			if tt.wantErr {
				if !errors.Is(err, errkind.ErrFormat) {
					t.Errorf("FormatFor(%q) error = %v, want ErrFormat", tt.path, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FormatFor(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("FormatFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
			if !IsAudio(tt.path) {
				t.Errorf("IsAudio(%q) = false, want true", tt.path)
			}
		})
	}
}

func intPtrEq(p *int, want int, wantNil bool) bool {
	if wantNil {
		return p == nil
	}
	return p != nil && *p == want
}

func TestParseNumberPair(t *testing.T) {
	tests := []struct {
		in             string
		num, total     int
		numNil, totNil bool
	}{
		{in: "3", num: 3, totNil: true},
		{in: "3/12", num: 3, total: 12},
		{in: "", numNil: true, totNil: true},
		{in: "A/B", numNil: true, totNil: true},
		{in: "3/", numNil: true, totNil: true},
		{in: " 7 ", num: 7, totNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			num, total := parseNumberPair(tt.in)
			if !intPtrEq(num, tt.num, tt.numNil) {
				t.Errorf("parseNumberPair(%q) num = %v", tt.in, num)
			}
			if !intPtrEq(total, tt.total, tt.totNil) {
				t.Errorf("parseNumberPair(%q) total = %v", tt.in, total)
			}
		})
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantNil bool
	}{
		{in: "2004", want: 2004},
		{in: "20040501", want: 2004},
		{in: "2004-05-01", wantNil: true},
		{in: "", wantNil: true},
		{in: "unknown", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseYear(tt.in); !intPtrEq(got, tt.want, tt.wantNil) {
				t.Errorf("parseYear(%q) = %v", tt.in, got)
			}
		})
	}
}

func writeID3(t *testing.T, path string, fill func(tag *id3v2.Tag)) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("id3v2.Open() error = %v", err)
	}
	fill(tag)
	if err := tag.Save(); err != nil {
		t.Fatalf("tag.Save() error = %v", err)
	}
	_ = tag.Close()
}

func TestReader_ReadMP3(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mp3")
	writeID3(t, path, func(tag *id3v2.Tag) {
		tag.SetArtist("Artist A")
		tag.SetTitle("Song X")
		tag.SetAlbum("Album")
		tag.SetGenre("Rock")
		tag.SetYear("1999")
		tag.AddTextFrame(tag.CommonID("Track number/Position in set"), id3v2.EncodingUTF8, "3/12")
		tag.AddTextFrame(tag.CommonID("Part of a set"), id3v2.EncodingUTF8, "1")
	})

	got, err := NewReader().Read(path, FormatMP3)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Artist == nil || *got.Artist != "Artist A" {
		t.Errorf("Artist = %v, want Artist A", got.Artist)
	}
	if got.Title == nil || *got.Title != "Song X" {
		t.Errorf("Title = %v, want Song X", got.Title)
	}
	if !intPtrEq(got.Year, 1999, false) {
		t.Errorf("Year = %v, want 1999", got.Year)
	}
	if !intPtrEq(got.TrackNum, 3, false) || !intPtrEq(got.TrackTotal, 12, false) {
		t.Errorf("Track = %v/%v, want 3/12", got.TrackNum, got.TrackTotal)
	}
	if !intPtrEq(got.DiscNum, 1, false) || got.DiscTotal != nil {
		t.Errorf("Disc = %v/%v, want 1/nil", got.DiscNum, got.DiscTotal)
	}
}

func TestReader_ReadMP3_NoTags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.mp3")
	frame := append([]byte{0xFF, 0xFB, 0x90, 0x00}, make([]byte, 124)...)
	if err := os.WriteFile(path, frame, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	got, err := NewReader().Read(path, FormatMP3)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Artist != nil || got.Title != nil || got.Year != nil || got.TrackNum != nil {
		t.Errorf("Read() = %+v, want all fields absent", got)
	}
}

func TestReader_ReadMissingFile(t *testing.T) {
	_, err := NewReader().Read(filepath.Join(t.TempDir(), "gone.m4a"), FormatM4A)
	if !errors.Is(err, errkind.ErrIO) {
		t.Errorf("Read() error = %v, want ErrIO", err)
	}
}

func TestReader_ReadM4A_NotContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.m4a")
	if err := os.WriteFile(path, []byte("this is not an mp4 container"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := NewReader().Read(path, FormatM4A)
	if !errors.Is(err, errkind.ErrFormat) {
		t.Errorf("Read() error = %v, want ErrFormat", err)
	}
}

// mp4Atom encodes a box: 32-bit big-endian size, 4-byte type, then body.
func mp4Atom(name string, body ...[]byte) []byte {
	payload := bytes.Join(body, nil)
	b := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(b, uint32(8+len(payload)))
	copy(b[4:], name)
	return append(b, payload...)
}

// mp4Text encodes an ilst item holding a UTF-8 data atom.
func mp4Text(name, value string) []byte {
	data := append([]byte{0, 0, 0, 1, 0, 0, 0, 0}, value...)
	return mp4Atom(name, mp4Atom("data", data))
}

func writeM4A(t *testing.T, path string, items ...[]byte) {
	t.Helper()
	file := bytes.Join([][]byte{
		mp4Atom("ftyp", []byte("M4A "), []byte{0, 0, 0, 0}, []byte("M4A isom")),
		mp4Atom("moov", mp4Atom("udta", mp4Atom("meta", []byte{0, 0, 0, 0}, mp4Atom("ilst", items...)))),
	}, nil)
	if err := os.WriteFile(path, file, 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestReader_ReadM4A(t *testing.T) {
	tests := []struct {
		name     string
		day      string
		wantYear int
		wantNil  bool
	}{
		{name: "plain year", day: "2004", wantYear: 2004},
		{name: "compact date", day: "20040501", wantYear: 2004},
		{name: "iso timestamp is not all digits", day: "2004-05-01T07:00:00Z", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "song.m4a")
			writeM4A(t, path,
				mp4Text("\xa9nam", "Song X"),
				mp4Text("\xa9ART", "Artist A"),
				mp4Text("\xa9day", tt.day),
			)

			got, err := NewReader().Read(path, FormatM4A)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if got.Artist == nil || *got.Artist != "Artist A" {
				t.Errorf("Artist = %v, want Artist A", got.Artist)
			}
			if got.Title == nil || *got.Title != "Song X" {
				t.Errorf("Title = %v, want Song X", got.Title)
			}
			if !intPtrEq(got.Year, tt.wantYear, tt.wantNil) {
				t.Errorf("Year = %v, want %d (nil %v)", got.Year, tt.wantYear, tt.wantNil)
			}
		})
	}
}

func TestReader_ReadUnknownFormat(t *testing.T) {
	_, err := NewReader().Read("/music/a.flac", FormatUnknown)
	if !errors.Is(err, errkind.ErrFormat) {
		t.Errorf("Read() error = %v, want ErrFormat", err)
	}
}
