package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_library_service.go -package=mocks song-deduper/internal/service LibraryService

import (
	"context"
	"errors"
	"strings"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/dedup"
	"song-deduper/internal/errkind"
	"song-deduper/internal/library"
	"song-deduper/internal/report"
	"song-deduper/internal/storage"
)

// Summary describes the loaded record store.
type Summary struct {
	Root    string `json:"root"`
	Prefix  string `json:"prefix"`
	Entries int    `json:"entries"`
}

// LibraryService answers read-only questions about one loaded record store.
type LibraryService interface {
	// Summary describes the loaded store.
	Summary(ctx context.Context) Summary
	// HashDuplicates returns the exact-duplicate groups with similarity rows.
	HashDuplicates(ctx context.Context) []dedup.Report[string]
	// TagDuplicates returns the (artist, title) groups with similarity rows.
	TagDuplicates(ctx context.Context) []dedup.Report[dedup.TagKey]
	// Document returns both duplicate reports for rendering.
	Document(ctx context.Context) report.Document
	// Missing returns the tag keys of the store persisted under
	// referencePrefix that the loaded store lacks.
	Missing(ctx context.Context, referencePrefix string) ([]dedup.TagKey, error)
}

// libraryService implements LibraryService.
type libraryService struct {
	root    string
	prefix  string
	records *library.RecordStore
	blobs   storage.Store
	cmp     dedup.Comparator
}

// NewLibraryService creates a service over records, which were loaded from
// blobs under prefix. Reference stores for Missing are read from blobs too.
func NewLibraryService(root, prefix string, records *library.RecordStore, blobs storage.Store, cmp dedup.Comparator) LibraryService {
	return &libraryService{
		root:    root,
		prefix:  prefix,
		records: records,
		blobs:   blobs,
		cmp:     cmp,
	}
}

func (s *libraryService) Summary(ctx context.Context) Summary {
	return Summary{Root: s.root, Prefix: s.prefix, Entries: s.records.Len()}
}

func (s *libraryService) HashDuplicates(ctx context.Context) []dedup.Report[string] {
	return dedup.Reports(s.records, dedup.ByContentHash(s.records), s.cmp)
}

func (s *libraryService) TagDuplicates(ctx context.Context) []dedup.Report[dedup.TagKey] {
	return dedup.Reports(s.records, dedup.ByTag(s.records), s.cmp)
}

func (s *libraryService) Document(ctx context.Context) report.Document {
	return report.Build(s.root, s.records, s.cmp)
}

func (s *libraryService) Missing(ctx context.Context, referencePrefix string) ([]dedup.TagKey, error) {
	logger := contextutil.LoggerFromContext(ctx)

	referencePrefix = strings.TrimSpace(referencePrefix)
	if referencePrefix == "" {
		return nil, &ValidationError{Field: "reference", Message: "cannot be empty"}
	}
	if referencePrefix == s.prefix {
		return nil, &ValidationError{Field: "reference", Message: "must differ from the local prefix " + s.prefix}
	}

	reference, _, err := library.NewRepository(s.blobs, referencePrefix).Load(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return nil, WrapError(ErrNotFound, "no record store for prefix "+referencePrefix)
	case errors.Is(err, errkind.ErrCacheCorruption):
		logger.WarnContext(ctx, "reference record store unreadable", "prefix", referencePrefix, "error", err)
		return nil, WrapError(errors.Join(ErrCorrupt, err), "reference "+referencePrefix)
	case err != nil:
		return nil, WrapError(err, "failed to load reference store")
	}

	missing := dedup.Missing(reference, s.records)
	logger.InfoContext(ctx, "compared collections", "reference", referencePrefix, "local", s.prefix, "missing", len(missing))
	return missing, nil
}
