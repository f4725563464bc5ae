package dedup

import (
	"cmp"
	"slices"

	"song-deduper/internal/library"
)

// Missing returns the tag keys present in reference but absent from local,
// sorted by artist then title. Content hashes play no part: the same recording
// under different tags counts as missing.
func Missing(reference, local *library.RecordStore) []TagKey {
	have := make(map[TagKey]struct{}, local.Len())
	for _, rec := range local.All() {
		if k, ok := TagKeyOf(rec); ok {
			have[k] = struct{}{}
		}
	}

	seen := make(map[TagKey]struct{})
	var missing []TagKey
	for _, rec := range reference.All() {
		k, ok := TagKeyOf(rec)
		if !ok {
			continue
		}
		if _, ok := have[k]; ok {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		missing = append(missing, k)
	}

	slices.SortFunc(missing, compareTagKeys)
	return missing
}

func compareTagKeys(a, b TagKey) int {
	return cmp.Or(
		cmp.Compare(a.Artist, b.Artist),
		cmp.Compare(a.Title, b.Title),
		compareBool(a.HasArtist, b.HasArtist),
		compareBool(a.HasTitle, b.HasTitle),
	)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}
