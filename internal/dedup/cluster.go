// Package dedup groups record store entries into duplicate clusters and
// scores the members of each cluster against one another.
package dedup

import (
	"song-deduper/internal/library"
)

// Group is a set of two or more paths that share a grouping key. Paths keep
// store iteration order, which is deterministic but carries no meaning
// beyond that.
type Group[K comparable] struct {
	Key   K
	Paths []string
}

// Cluster buckets every store entry by keyFn and returns the buckets with at
// least two members, ordered by the first appearance of their key. Entries
// for which keyFn reports false are left out.
func Cluster[K comparable](store *library.RecordStore, keyFn func(library.MusicRecord) (K, bool)) []Group[K] {
	index := make(map[K]int)
	var buckets []Group[K]

	for path, rec := range store.All() {
		key, ok := keyFn(rec)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Group[K]{Key: key})
		}
		buckets[i].Paths = append(buckets[i].Paths, path)
	}

	groups := buckets[:0]
	for _, b := range buckets {
		if len(b.Paths) >= 2 {
			groups = append(groups, b)
		}
	}
	return groups
}

// HashKey keys a record by its content hash.
func HashKey(r library.MusicRecord) (string, bool) {
	return r.ContentHash, r.ContentHash != ""
}

// TagKey is the coarse (artist, title) identity of a record. An absent field
// is distinct from an empty one.
type TagKey struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	HasArtist bool   `json:"has_artist"`
	HasTitle  bool   `json:"has_title"`
}

// String renders the key for reports.
func (k TagKey) String() string {
	artist, title := "<no artist>", "<no title>"
	if k.HasArtist {
		artist = k.Artist
	}
	if k.HasTitle {
		title = k.Title
	}
	return artist + " - " + title
}

// TagKeyOf keys a record by (artist, title). Records with neither tag are not
// keyed, since every untagged file would otherwise form one large group.
func TagKeyOf(r library.MusicRecord) (TagKey, bool) {
	if r.Artist == nil && r.Title == nil {
		return TagKey{}, false
	}
	return TagKey{
		Artist:    r.ArtistOrEmpty(),
		Title:     r.TitleOrEmpty(),
		HasArtist: r.Artist != nil,
		HasTitle:  r.Title != nil,
	}, true
}

// ByContentHash returns the exact-duplicate groups of store.
func ByContentHash(store *library.RecordStore) []Group[string] {
	return Cluster(store, HashKey)
}

// ByTag returns the (artist, title) groups of store.
func ByTag(store *library.RecordStore) []Group[TagKey] {
	return Cluster(store, TagKeyOf)
}
