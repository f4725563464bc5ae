package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/errkind"
	"song-deduper/internal/storage"
	"song-deduper/internal/tags"
)

// Catalog discovers audio files under a root and persists the sorted path
// list under a per-prefix key. A persisted list is reused verbatim: files
// added later stay invisible until the catalog is cleared.
type Catalog struct {
	store  storage.Store
	prefix string
}

// New creates a catalog persisted in store under prefix.
func New(store storage.Store, prefix string) *Catalog {
	return &Catalog{store: store, prefix: prefix}
}

// Key returns the storage key of the persisted path list.
func (c *Catalog) Key() string {
	return storage.CatalogKey(c.prefix)
}

// DiscoverOrLoad returns the persisted path list if one exists, otherwise
// walks root, persists the result and returns it.
// The bool result reports whether the list came from the cache.
func (c *Catalog) DiscoverOrLoad(ctx context.Context, root string) ([]string, bool, error) {
	logger := contextutil.LoggerFromContext(ctx)

	data, err := c.store.Get(ctx, c.Key())
	switch {
	case err == nil:
		var paths []string
		if err := json.Unmarshal(data, &paths); err != nil {
			return nil, false, errkind.Wrap(errkind.ErrCacheCorruption, "load catalog", c.Key(), err)
		}
		logger.DebugContext(ctx, "loaded path catalog", "key", c.Key(), "paths", len(paths))
		return paths, true, nil
	case !errors.Is(err, storage.ErrNotFound):
		return nil, false, fmt.Errorf("failed to read path catalog: %w", err)
	}

	paths, err := Discover(ctx, root)
	if err != nil {
		return nil, false, err
	}

	data, err = json.Marshal(paths)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal path catalog: %w", err)
	}
	if err := c.store.Put(ctx, c.Key(), data); err != nil {
		return nil, false, fmt.Errorf("failed to persist path catalog: %w", err)
	}

	logger.InfoContext(ctx, "built path catalog", "root", root, "paths", len(paths))
	return paths, false, nil
}

// Clear removes the persisted path list so the next DiscoverOrLoad walks again.
func (c *Catalog) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.Key()); err != nil {
		return fmt.Errorf("failed to delete path catalog: %w", err)
	}
	return nil
}

// Quarantine moves an unreadable persisted list aside and returns its new key.
func (c *Catalog) Quarantine(ctx context.Context) (string, error) {
	dest := storage.QuarantineKey(c.Key())
	if err := c.store.Rename(ctx, c.Key(), dest); err != nil {
		return "", fmt.Errorf("failed to quarantine path catalog: %w", err)
	}
	return dest, nil
}

// Discover walks root recursively and returns the absolute paths of every
// file with a recognized audio extension, sorted lexicographically.
func Discover(ctx context.Context, root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root %s: %w", root, err)
	}

	var paths []string
	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == absRoot {
				return errkind.Wrap(errkind.ErrIO, "walk", path, err)
			}
			// Unreadable entries below the root are left out, not fatal.
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "skipping unreadable entry", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		// Hidden entries hold OS and player metadata (._ resource forks, .Trashes).
		hidden := path != absRoot && strings.HasPrefix(info.Name(), ".")
		if info.IsDir() {
			if hidden {
				return filepath.SkipDir
			}
			return nil
		}

		if hidden || !info.Mode().IsRegular() || !tags.IsAudio(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", absRoot, err)
	}

	slices.Sort(paths)
	return paths, nil
}
