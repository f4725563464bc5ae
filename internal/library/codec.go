package library

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"song-deduper/internal/errkind"
)

// SchemaVersion identifies the on-disk layout of a persisted record store.
// Bump it whenever MusicRecord changes shape.
const SchemaVersion = 1

// Envelope is the persisted form of a RecordStore. Entries are a list rather
// than an object so store order survives the round trip.
type Envelope struct {
	Version   int       `json:"version"`
	BuildID   string    `json:"build_id"`
	Root      string    `json:"root"`
	CreatedAt time.Time `json:"created_at"`
	Entries   []Entry   `json:"entries"`
}

// Entry is one path/record pair.
type Entry struct {
	Path   string      `json:"path"`
	Record MusicRecord `json:"record"`
}

// Meta describes the build a store came from.
type Meta struct {
	BuildID   string
	Root      string
	CreatedAt time.Time
}

// NewMeta stamps a fresh build of root.
func NewMeta(root string) Meta {
	return Meta{
		BuildID:   uuid.New().String(),
		Root:      root,
		CreatedAt: time.Now().UTC(),
	}
}

// Encode serializes the store.
func Encode(s *RecordStore, meta Meta) ([]byte, error) {
	env := Envelope{
		Version:   SchemaVersion,
		BuildID:   meta.BuildID,
		Root:      meta.Root,
		CreatedAt: meta.CreatedAt,
		Entries:   make([]Entry, 0, s.Len()),
	}
	for p, r := range s.All() {
		env.Entries = append(env.Entries, Entry{Path: p, Record: r})
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record store: %w", err)
	}
	return data, nil
}

// Decode parses a persisted store. Malformed data, a schema version
// mismatch, or duplicate paths are reported as errkind.ErrCacheCorruption.
func Decode(key string, data []byte) (*RecordStore, Meta, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, Meta{}, errkind.Wrap(errkind.ErrCacheCorruption, "decode", key, err)
	}
	if env.Version != SchemaVersion {
		return nil, Meta{}, errkind.Wrap(errkind.ErrCacheCorruption, "decode", key,
			fmt.Errorf("schema version %d, want %d", env.Version, SchemaVersion))
	}

	s := NewRecordStore()
	for _, e := range env.Entries {
		if s.Has(e.Path) {
			return nil, Meta{}, errkind.Wrap(errkind.ErrCacheCorruption, "decode", key,
				fmt.Errorf("duplicate path %q", e.Path))
		}
		s.Put(e.Path, e.Record)
	}
	return s, Meta{BuildID: env.BuildID, Root: env.Root, CreatedAt: env.CreatedAt}, nil
}
