package library

import (
	"iter"
	"slices"
)

// RecordStore maps absolute file paths to records. Iteration follows
// insertion order, which for a freshly built store is catalog order.
type RecordStore struct {
	paths   []string
	records map[string]MusicRecord
}

// NewRecordStore creates an empty store.
func NewRecordStore() *RecordStore {
	return &RecordStore{records: make(map[string]MusicRecord)}
}

// Len returns the number of entries.
func (s *RecordStore) Len() int {
	return len(s.paths)
}

// Get returns the record for path.
func (s *RecordStore) Get(path string) (MusicRecord, bool) {
	r, ok := s.records[path]
	return r, ok
}

// Has reports whether path is a key of the store.
func (s *RecordStore) Has(path string) bool {
	_, ok := s.records[path]
	return ok
}

// Put inserts or replaces the record for path. A new path is appended to the
// iteration order; a replaced path keeps its position.
func (s *RecordStore) Put(path string, r MusicRecord) {
	if _, ok := s.records[path]; !ok {
		s.paths = append(s.paths, path)
	}
	s.records[path] = r
}

// Paths returns a copy of the keys in iteration order.
func (s *RecordStore) Paths() []string {
	return slices.Clone(s.paths)
}

// All iterates entries in store order.
func (s *RecordStore) All() iter.Seq2[string, MusicRecord] {
	return func(yield func(string, MusicRecord) bool) {
		for _, p := range s.paths {
			if !yield(p, s.records[p]) {
				return
			}
		}
	}
}

// Without returns a new store holding every entry except the given paths, in
// the original order. The receiver is not modified.
func (s *RecordStore) Without(paths ...string) *RecordStore {
	drop := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		drop[p] = struct{}{}
	}
	out := NewRecordStore()
	for p, r := range s.All() {
		if _, ok := drop[p]; ok {
			continue
		}
		out.Put(p, r)
	}
	return out
}
