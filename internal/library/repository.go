package library

import (
	"context"
	"errors"
	"fmt"

	"song-deduper/internal/contextutil"
	"song-deduper/internal/storage"
)

// Repository persists record stores under a per-host key prefix.
type Repository struct {
	store  storage.Store
	prefix string
}

// NewRepository creates a repository writing to store under prefix.
func NewRepository(store storage.Store, prefix string) *Repository {
	return &Repository{store: store, prefix: prefix}
}

// Key returns the storage key of the record store.
func (r *Repository) Key() string {
	return storage.RecordsKey(r.prefix)
}

// Load reads the persisted record store.
// Returns storage.ErrNotFound when nothing has been persisted yet and
// errkind.ErrCacheCorruption when the blob cannot be decoded.
//
// A missing blob with a backup next to it means a Replace stopped between
// its rename and its write. The backup is moved back into place and loaded.
func (r *Repository) Load(ctx context.Context) (*RecordStore, Meta, error) {
	data, err := r.store.Get(ctx, r.Key())
	if errors.Is(err, storage.ErrNotFound) {
		return r.restoreBackup(ctx, err)
	}
	if err != nil {
		return nil, Meta{}, err
	}
	return Decode(r.Key(), data)
}

func (r *Repository) restoreBackup(ctx context.Context, notFound error) (*RecordStore, Meta, error) {
	backup := storage.BackupKey(r.Key())
	data, err := r.store.Get(ctx, backup)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, Meta{}, notFound
	}
	if err != nil {
		return nil, Meta{}, fmt.Errorf("failed to read record store backup: %w", err)
	}
	s, meta, err := Decode(backup, data)
	if err != nil {
		return nil, Meta{}, err
	}

	logger := contextutil.LoggerFromContext(ctx)
	logger.WarnContext(ctx, "record store missing, restoring previous version from backup",
		"key", r.Key(), "backup", backup, "entries", s.Len())
	if err := r.store.Rename(ctx, backup, r.Key()); err != nil {
		logger.WarnContext(ctx, "failed to move backup back into place", "backup", backup, "error", err)
	}
	return s, meta, nil
}

// Save writes the store, overwriting any previous blob without a backup.
// Used for the first persist after a fresh build.
func (r *Repository) Save(ctx context.Context, s *RecordStore, meta Meta) error {
	data, err := Encode(s, meta)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, r.Key(), data); err != nil {
		return fmt.Errorf("failed to save record store: %w", err)
	}
	return nil
}

// Replace persists s after moving the current blob to its backup key.
// The new blob is encoded before anything is renamed, so an encoding failure
// leaves the current blob untouched.
func (r *Repository) Replace(ctx context.Context, s *RecordStore, meta Meta) error {
	logger := contextutil.LoggerFromContext(ctx)

	data, err := Encode(s, meta)
	if err != nil {
		return err
	}

	backup := storage.BackupKey(r.Key())
	if err := r.store.Rename(ctx, r.Key(), backup); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("failed to back up record store: %w", err)
		}
		logger.DebugContext(ctx, "no previous record store to back up", "key", r.Key())
	} else {
		logger.DebugContext(ctx, "backed up record store", "key", r.Key(), "backup", backup)
	}

	if err := r.store.Put(ctx, r.Key(), data); err != nil {
		return fmt.Errorf("failed to write record store (previous version kept at %s): %w", backup, err)
	}
	return nil
}

// Quarantine moves the current blob aside so a rebuild does not overwrite
// the evidence of corruption.
func (r *Repository) Quarantine(ctx context.Context) (string, error) {
	dest := storage.QuarantineKey(r.Key())
	if err := r.store.Rename(ctx, r.Key(), dest); err != nil {
		return "", fmt.Errorf("failed to quarantine record store: %w", err)
	}
	return dest, nil
}

// Clear removes the record store and its backup.
func (r *Repository) Clear(ctx context.Context) error {
	for _, key := range []string{r.Key(), storage.BackupKey(r.Key())} {
		if err := r.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}
