package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_collaborators.go -package=mocks song-deduper/internal/indexer Fingerprinter,TagReader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sync/errgroup"

	"song-deduper/internal/catalog"
	"song-deduper/internal/contextutil"
	"song-deduper/internal/errkind"
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/hasher"
	"song-deduper/internal/library"
	"song-deduper/internal/storage"
	"song-deduper/internal/tags"
)

// Fingerprinter computes an acoustic fingerprint for an audio file.
type Fingerprinter interface {
	Fingerprint(ctx context.Context, path string) (fingerprint.Fingerprint, error)
}

// TagReader extracts the shared tag record from a file of a known format.
type TagReader interface {
	Read(path string, format tags.Format) (tags.Tags, error)
}

// Options tunes a Pipeline.
type Options struct {
	// Workers bounds concurrent hash+fingerprint jobs. Values below 1 mean 1.
	Workers int
	// RebuildCorrupt quarantines an undecodable cache and rebuilds instead of
	// failing.
	RebuildCorrupt bool
}

// DefaultOptions returns sequential scanning with corrupt-cache rebuild enabled.
func DefaultOptions() Options {
	return Options{Workers: 1, RebuildCorrupt: true}
}

// Pipeline builds the record store for one root, or loads it from the cache.
type Pipeline struct {
	root     string
	catalog  *catalog.Catalog
	repo     *library.Repository
	printer  Fingerprinter
	tags     TagReader
	hashFile func(path string) (string, error)
	opts     Options
}

// NewPipeline creates a pipeline for root.
func NewPipeline(
	root string,
	cat *catalog.Catalog,
	repo *library.Repository,
	printer Fingerprinter,
	tagReader TagReader,
	opts Options,
) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Pipeline{
		root:     root,
		catalog:  cat,
		repo:     repo,
		printer:  printer,
		tags:     tagReader,
		hashFile: hasher.HashFile,
		opts:     opts,
	}
}

// BuildOrLoad returns the persisted store if there is one. Otherwise it
// indexes every catalogued path, persists the complete store and returns it.
// A cancelled build persists nothing.
func (p *Pipeline) BuildOrLoad(ctx context.Context) (*library.RecordStore, BuildStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	var stats BuildStats

	store, _, err := p.repo.Load(ctx)
	switch {
	case err == nil:
		stats.Loaded = true
		stats.Entries = store.Len()
		logger.InfoContext(ctx, "loaded record store", "key", p.repo.Key(), "entries", store.Len())
		return store, stats, nil
	case errors.Is(err, storage.ErrNotFound):
	case errors.Is(err, errkind.ErrCacheCorruption) && p.opts.RebuildCorrupt:
		dest, qErr := p.repo.Quarantine(ctx)
		if qErr != nil {
			return nil, stats, errors.Join(err, qErr)
		}
		logger.WarnContext(ctx, "record store unreadable, rebuilding", "error", err, "quarantined_to", dest)
		stats.Rebuilt = true
	default:
		return nil, stats, fmt.Errorf("failed to load record store: %w", err)
	}

	paths, err := p.loadCatalog(ctx)
	if err != nil {
		return nil, stats, err
	}
	stats.Catalogued = len(paths)

	logger.InfoContext(ctx, "starting indexing", "root", p.root, "total_files", len(paths), "workers", p.opts.Workers)

	results := make([]fileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.indexFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, fmt.Errorf("indexing aborted: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, stats, fmt.Errorf("indexing aborted: %w", err)
	}

	store = library.NewRecordStore()
	for _, r := range results {
		stats.add(r)
		if r.outcome == OutcomeIndexed {
			store.Put(r.path, r.record)
		}
	}
	stats.Entries = store.Len()

	if err := p.repo.Save(ctx, store, library.NewMeta(p.root)); err != nil {
		return nil, stats, err
	}

	logger.InfoContext(ctx, "indexing completed",
		"total_files", stats.Catalogued,
		"indexed", stats.Indexed,
		"vanished", stats.Vanished,
		"unsupported", stats.Unsupported,
		"failed", stats.Failed,
	)
	return store, stats, nil
}

func (p *Pipeline) loadCatalog(ctx context.Context) ([]string, error) {
	paths, _, err := p.catalog.DiscoverOrLoad(ctx, p.root)
	if err == nil {
		return paths, nil
	}
	if !errors.Is(err, errkind.ErrCacheCorruption) || !p.opts.RebuildCorrupt {
		return nil, err
	}

	dest, qErr := p.catalog.Quarantine(ctx)
	if qErr != nil {
		return nil, errors.Join(err, qErr)
	}
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "path catalog unreadable, rescanning",
		"error", err, "quarantined_to", dest)

	paths, _, err = p.catalog.DiscoverOrLoad(ctx, p.root)
	return paths, err
}

type fileResult struct {
	path    string
	outcome Outcome
	record  library.MusicRecord
	err     error
}

// indexFile computes the record for one path. Per-file problems are logged
// and returned as an outcome, never as an error that stops sibling workers.
func (p *Pipeline) indexFile(ctx context.Context, path string) fileResult {
	logger := contextutil.LoggerFromContext(ctx)
	res := fileResult{path: path}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.DebugContext(ctx, "skipping vanished file", "path", path)
			res.outcome = OutcomeVanished
			return res
		}
		return p.failed(ctx, res, errkind.Wrap(errkind.ErrIO, "stat", path, err))
	}

	format, err := tags.FormatFor(path)
	if err != nil {
		logger.WarnContext(ctx, "catalogued file has no tag extraction rules", "path", path, "error", err)
		res.outcome = OutcomeUnsupported
		res.err = err
		return res
	}

	contentHash, err := p.hashFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.DebugContext(ctx, "skipping vanished file", "path", path)
			res.outcome = OutcomeVanished
			return res
		}
		return p.failed(ctx, res, err)
	}

	fp, err := p.printer.Fingerprint(ctx, path)
	if err != nil {
		return p.failed(ctx, res, err)
	}

	t, err := p.tags.Read(path, format)
	if err != nil {
		return p.failed(ctx, res, err)
	}

	res.outcome = OutcomeIndexed
	res.record = library.NewMusicRecord(t, fp, contentHash)
	logger.DebugContext(ctx, "indexed file", "path", path, "format", format.String(), "hash", contentHash)
	return res
}

func (p *Pipeline) failed(ctx context.Context, res fileResult, err error) fileResult {
	contextutil.LoggerFromContext(ctx).WarnContext(ctx, "skipping file", "path", res.path, "error", err)
	res.outcome = OutcomeFailed
	res.err = err
	return res
}
