package hasher

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"song-deduper/internal/errkind"
)

// chunkSize bounds how much of the file is held in memory at once.
const chunkSize = 32 * 1024

// HashFile streams the file at path through SHA-256 and returns the hex digest.
// Open and read failures are reported as errkind.ErrIO.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errkind.Wrap(errkind.ErrIO, "open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return hashReader(path, f)
}

func hashReader(path string, r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, chunkSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", errkind.Wrap(errkind.ErrIO, "read", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
