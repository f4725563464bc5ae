package tags

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/dhowden/tag"

	"song-deduper/internal/errkind"
)

func readMP4(path string) (Tags, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tags{}, errkind.Wrap(errkind.ErrIO, "open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	// dhowden/tag falls back to ID3v1 for unknown content, so check the
	// ftyp box first to reject files that are not MP4 containers at all.
	header := make([]byte, 8)
	if _, err := io.ReadFull(f, header); err != nil {
		return Tags{}, errkind.Wrap(errkind.ErrFormat, "read mp4 header", path, err)
	}
	if !bytes.Equal(header[4:8], []byte("ftyp")) {
		return Tags{}, errkind.New(errkind.ErrFormat, "read mp4 header", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Tags{}, errkind.Wrap(errkind.ErrIO, "seek", path, err)
	}

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return Tags{}, nil
	}
	if err != nil {
		return Tags{}, errkind.Wrap(errkind.ErrFormat, "parse mp4 atoms", path, err)
	}

	track, trackTotal := m.Track()
	disc, discTotal := m.Disc()
	return Tags{
		Artist:     optString(m.Artist()),
		Album:      optString(m.Album()),
		Title:      optString(m.Title()),
		Genre:      optString(m.Genre()),
		Year:       parseYear(rawString(m.Raw(), "\xa9day")),
		DiscNum:    optInt(disc),
		DiscTotal:  optInt(discTotal),
		TrackNum:   optInt(track),
		TrackTotal: optInt(trackTotal),
	}, nil
}

// rawString returns the text atom stored under name, or "" when it is absent
// or not text.
func rawString(raw map[string]interface{}, name string) string {
	s, _ := raw[name].(string)
	return s
}
