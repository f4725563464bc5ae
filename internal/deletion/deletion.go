// Package deletion removes files from disk and keeps the persisted record
// store in step with what was removed.
package deletion

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/errkind"
	"song-deduper/internal/library"
	"song-deduper/internal/tags"
)

// Warning explains why a listed path was skipped or why the store diverged.
type Warning struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %s: %v", w.Path, w.Reason, w.Err)
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}

// Result is the outcome of a deletion batch.
type Result struct {
	// Store is the updated record store. It is a new value; the input store
	// is left untouched.
	Store *library.RecordStore
	// Changed reports whether any entry was removed from the store.
	Changed  bool
	Deleted  []string
	Warnings []Warning
}

// Synchronizer deletes files under root and persists the matching store.
type Synchronizer struct {
	root   string
	repo   *library.Repository
	remove func(path string) error
}

// NewSynchronizer creates a synchronizer for the store of root kept in repo.
func NewSynchronizer(root string, repo *library.Repository) *Synchronizer {
	return &Synchronizer{root: root, repo: repo, remove: os.Remove}
}

// Delete removes each listed file that exists and has an audio extension,
// then drops its store entry. Anything else becomes a warning; a bad entry
// never stops the batch.
func (s *Synchronizer) Delete(ctx context.Context, paths []string, store *library.RecordStore) Result {
	logger := contextutil.LoggerFromContext(ctx)
	res := Result{}

	warn := func(path, reason string, err error) {
		w := Warning{Path: path, Reason: reason, Err: err}
		res.Warnings = append(res.Warnings, w)
		if err != nil {
			logger.WarnContext(ctx, reason, "path", path, "error", err)
		} else {
			logger.WarnContext(ctx, reason, "path", path)
		}
	}

	var removed []string
	for _, p := range paths {
		path := s.resolve(p)

		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				warn(path, "file does not exist, not deleting", nil)
			} else {
				warn(path, "cannot stat file, not deleting", errkind.Wrap(errkind.ErrIO, "stat", path, err))
			}
			continue
		}
		if !info.Mode().IsRegular() {
			warn(path, "not a regular file, not deleting", nil)
			continue
		}
		if !tags.IsAudio(path) {
			warn(path, "not a recognized audio file, not deleting", nil)
			continue
		}

		if err := s.remove(path); err != nil {
			warn(path, "failed to delete file", errkind.Wrap(errkind.ErrIO, "remove", path, err))
			continue
		}
		res.Deleted = append(res.Deleted, path)
		logger.InfoContext(ctx, "deleted file", "path", path)

		if !store.Has(path) {
			warn(path, "deleted file was not in the record store", nil)
			continue
		}
		removed = append(removed, path)
	}

	res.Changed = len(removed) > 0
	if res.Changed {
		res.Store = store.Without(removed...)
	} else {
		res.Store = store
	}
	return res
}

// Sync runs Delete and, if the store changed, replaces the persisted store
// while keeping the previous blob as a backup. A persistence failure is
// returned alongside the result so the caller still sees what was deleted.
func (s *Synchronizer) Sync(ctx context.Context, paths []string, store *library.RecordStore) (Result, error) {
	res := s.Delete(ctx, paths, store)
	if !res.Changed {
		return res, nil
	}
	if err := s.repo.Replace(ctx, res.Store, library.NewMeta(s.root)); err != nil {
		return res, fmt.Errorf("failed to persist record store after deletion: %w", err)
	}
	return res, nil
}

// resolve makes a relative list entry absolute against root, matching the
// root-relative paths shown in reports.
func (s *Synchronizer) resolve(p string) string {
	if filepath.IsAbs(p) || s.root == "" {
		return filepath.Clean(p)
	}
	return filepath.Join(s.root, p)
}

// ReadList parses a newline-delimited delete list. Blank lines and lines
// starting with # are ignored; surrounding whitespace is trimmed.
func ReadList(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read delete list: %w", err)
	}
	return paths, nil
}

// ReadListFile opens and parses a delete list file.
func ReadListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errkind.Wrap(errkind.ErrIO, "open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()
	return ReadList(f)
}
