package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks song-deduper/internal/storage Store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a key has no stored blob.
	ErrNotFound = errors.New("record not found")
)

// Store defines the key-value persistence operations the cache layers need.
// Keys are flat strings; values are opaque serialized blobs.
type Store interface {
	// Get returns the blob stored under key.
	// Returns nil and ErrNotFound if the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists reports whether key holds a blob without reading it.
	Exists(ctx context.Context, key string) (bool, error)
	// Put stores data under key, replacing any previous blob.
	Put(ctx context.Context, key string, data []byte) error
	// Rename moves the blob at from to to, replacing any blob already at to.
	// Returns ErrNotFound if from is absent.
	Rename(ctx context.Context, from, to string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// CatalogKey returns the key under which the path catalog for prefix is stored.
func CatalogKey(prefix string) string {
	return prefix + "glob_cache"
}

// RecordsKey returns the key under which the record store for prefix is stored.
func RecordsKey(prefix string) string {
	return prefix + "music_datas"
}

// BackupKey returns the key that preserves the previous blob of key.
func BackupKey(key string) string {
	return key + ".old"
}

// QuarantineKey returns the key a corrupt blob of key is moved to.
func QuarantineKey(key string) string {
	return key + ".corrupt"
}
