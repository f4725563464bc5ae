// Package fingerprint wraps the chromaprint fpcalc tool behind a stable
// interface and provides the similarity metric used to compare results.
package fingerprint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"song-deduper/internal/errkind"
)

// Fingerprint is the acoustic summary of a file: the decoded duration and the
// raw 32-bit chromaprint subfingerprints.
type Fingerprint struct {
	Duration float64  `json:"duration"`
	Frames   []uint32 `json:"frames"`
}

// Empty reports whether the fingerprint carries no frames.
func (f Fingerprint) Empty() bool {
	return len(f.Frames) == 0
}

const (
	// DefaultLength is how many seconds of audio fpcalc analyses.
	DefaultLength = 120
	// DefaultTimeout bounds a single fpcalc invocation.
	DefaultTimeout = 30 * time.Second
)

// Fpcalc runs the fpcalc binary to fingerprint files.
type Fpcalc struct {
	Path    string
	Length  int
	Timeout time.Duration
}

// NewFpcalc creates an Fpcalc with defaults applied for zero values.
func NewFpcalc(path string, length int, timeout time.Duration) *Fpcalc {
	if path == "" {
		path = "fpcalc"
	}
	if length <= 0 {
		length = DefaultLength
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fpcalc{Path: path, Length: length, Timeout: timeout}
}

// Available reports whether the fpcalc binary can be found.
func (f *Fpcalc) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

// Fingerprint runs fpcalc -raw on path. Decode failures and unparsable output
// are reported as errkind.ErrFingerprint.
func (f *Fpcalc) Fingerprint(ctx context.Context, path string) (Fingerprint, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.Path, "-raw", "-length", strconv.Itoa(f.Length), path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return Fingerprint{}, errkind.Wrap(errkind.ErrFingerprint, "fpcalc", path, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := strings.TrimSpace(stderr.String())
			return Fingerprint{}, errkind.Wrap(errkind.ErrFingerprint, "fpcalc", path, fmt.Errorf("%w: %s", err, msg))
		}
		return Fingerprint{}, errkind.Wrap(errkind.ErrFingerprint, "fpcalc", path, err)
	}

	fp, err := ParseOutput(out)
	if err != nil {
		return Fingerprint{}, errkind.Wrap(errkind.ErrFingerprint, "fpcalc", path, err)
	}
	return fp, nil
}

// ParseOutput parses the DURATION= and FINGERPRINT= lines of fpcalc -raw output.
func ParseOutput(out []byte) (Fingerprint, error) {
	var fp Fingerprint
	var sawFingerprint bool
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DURATION="):
			d, err := strconv.ParseFloat(strings.TrimPrefix(line, "DURATION="), 64)
			if err != nil {
				return Fingerprint{}, fmt.Errorf("invalid duration %q: %w", line, err)
			}
			fp.Duration = d
		case strings.HasPrefix(line, "FINGERPRINT="):
			sawFingerprint = true
			parts := strings.FieldsFunc(strings.TrimPrefix(line, "FINGERPRINT="), func(r rune) bool {
				return r == ',' || r == ' '
			})
			fp.Frames = make([]uint32, 0, len(parts))
			for _, p := range parts {
				v, err := strconv.ParseUint(p, 10, 32)
				if err != nil {
					return Fingerprint{}, fmt.Errorf("invalid fingerprint value %q: %w", p, err)
				}
				fp.Frames = append(fp.Frames, uint32(v))
			}
		}
	}
	if !sawFingerprint || fp.Empty() {
		return Fingerprint{}, errors.New("no fingerprint in fpcalc output")
	}
	return fp, nil
}
