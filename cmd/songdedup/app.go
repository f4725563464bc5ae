package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"song-deduper/internal/catalog"
	"song-deduper/internal/config"
	"song-deduper/internal/contextutil"
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/indexer"
	"song-deduper/internal/library"
	"song-deduper/internal/logging"
	"song-deduper/internal/storage"
	"song-deduper/internal/tags"
)

// app holds the wiring shared by every command.
type app struct {
	cfg     *config.Config
	root    string
	prefix  string
	blobs   storage.Store
	catalog *catalog.Catalog
	repo    *library.Repository
	printer *fingerprint.Fpcalc
	closers []io.Closer
}

// newApp loads configuration, sets up logging and opens the cache backend.
// root may be empty for commands that do not touch the library.
func newApp(ctx context.Context, root, prefix string) (context.Context, *app, error) {
	cfg, err := config.Load()
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, logCloser, err := logging.New(os.Stderr, logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(logger)
	ctx = contextutil.WithLogger(ctx, logger)
	logger.DebugContext(ctx, "logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat, "file", cfg.LogFile)

	if root == "" {
		root = cfg.MusicRoot
	}
	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			_ = logCloser.Close()
			return ctx, nil, fmt.Errorf("failed to resolve music root: %w", err)
		}
		root = abs
	}
	if prefix == "" {
		prefix = cfg.CachePrefix
	}

	blobs, err := storage.Open(ctx, storage.Options{
		Backend:        cfg.CacheBackend,
		Dir:            cfg.CacheDir,
		DBPath:         cfg.CacheDBPath,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		RedisDB:        cfg.RedisDB,
		RedisNamespace: "song-deduper",
		Minio: storage.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.MinioRegion,
			UseSSL:    cfg.MinioUseSSL,
			Prefix:    cfg.MinioPrefix,
		},
	})
	if err != nil {
		_ = logCloser.Close()
		return ctx, nil, fmt.Errorf("failed to open %s cache: %w", cfg.CacheBackend, err)
	}
	logger.InfoContext(ctx, "cache opened", "backend", cfg.CacheBackend, "prefix", prefix)

	return ctx, &app{
		cfg:     cfg,
		root:    root,
		prefix:  prefix,
		blobs:   blobs,
		catalog: catalog.New(blobs, prefix),
		repo:    library.NewRepository(blobs, prefix),
		printer: fingerprint.NewFpcalc(cfg.FpcalcPath, cfg.FpcalcLength, cfg.FpcalcTimeout),
		closers: []io.Closer{blobs, logCloser},
	}, nil
}

func (a *app) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// records builds the record store for the library root or loads the cached one.
func (a *app) records(ctx context.Context, workers int, rebuildCorrupt bool) (*library.RecordStore, error) {
	if a.root == "" {
		return nil, fmt.Errorf("no music root given: pass it as an argument or set MUSIC_ROOT")
	}
	info, err := os.Stat(a.root)
	if err != nil {
		return nil, fmt.Errorf("music root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("music root %s is not a directory", a.root)
	}

	if workers < 1 {
		workers = a.cfg.ScanWorkers
	}
	pipeline := indexer.NewPipeline(a.root, a.catalog, a.repo, a.printer, tags.NewReader(), indexer.Options{
		Workers:        workers,
		RebuildCorrupt: rebuildCorrupt,
	})

	store, stats, err := pipeline.BuildOrLoad(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Failed > 0 && !a.printer.Available() {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "fpcalc not found; install chromaprint or set FPCALC_PATH", "path", a.cfg.FpcalcPath)
	}
	for _, f := range stats.Failures {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "file left out of store",
			"path", f.Path, "outcome", f.Outcome, "kind", f.Kind, "error", f.Error)
	}
	return store, nil
}
