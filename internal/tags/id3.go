package tags

import (
	"errors"
	"io/fs"

	"github.com/bogem/id3v2/v2"

	"song-deduper/internal/errkind"
)

func readID3(path string) (Tags, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return Tags{}, errkind.Wrap(errkind.ErrIO, "open", path, err)
		}
		return Tags{}, errkind.Wrap(errkind.ErrFormat, "parse id3", path, err)
	}
	defer func() {
		_ = tag.Close()
	}()

	t := Tags{
		Artist: optString(tag.Artist()),
		Album:  optString(tag.Album()),
		Title:  optString(tag.Title()),
		Genre:  optString(tag.Genre()),
		Year:   parseYear(tag.Year()),
	}
	t.TrackNum, t.TrackTotal = parseNumberPair(tag.GetTextFrame(tag.CommonID("Track number/Position in set")).Text)
	t.DiscNum, t.DiscTotal = parseNumberPair(tag.GetTextFrame(tag.CommonID("Part of a set")).Text)
	return t, nil
}
