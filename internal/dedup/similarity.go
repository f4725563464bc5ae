package dedup

import (
	"song-deduper/internal/fingerprint"
	"song-deduper/internal/library"
)

// Comparator scores two fingerprints in [0,1]; higher is more similar.
type Comparator interface {
	Similarity(a, b fingerprint.Fingerprint) float64
}

// SimilarityRow holds the scores of one group member against every member
// listed before it.
type SimilarityRow struct {
	Path   string    `json:"path"`
	Scores []float64 `json:"scores"`
}

// Similarity returns one row per path in group order. Row i has exactly i
// scores, so a group of n paths yields n(n-1)/2 scores in total. Paths
// missing from store score 0 against everything.
func Similarity(store *library.RecordStore, paths []string, cmp Comparator) []SimilarityRow {
	fps := make([]fingerprint.Fingerprint, len(paths))
	for i, p := range paths {
		if rec, ok := store.Get(p); ok {
			fps[i] = rec.Fingerprint
		}
	}

	rows := make([]SimilarityRow, len(paths))
	for i, p := range paths {
		rows[i] = SimilarityRow{Path: p, Scores: make([]float64, i)}
		for j := range i {
			rows[i].Scores[j] = cmp.Similarity(fps[i], fps[j])
		}
	}
	return rows
}

// Report pairs a duplicate group with its similarity rows.
type Report[K comparable] struct {
	Key  K               `json:"key"`
	Rows []SimilarityRow `json:"rows"`
}

// Reports scores every group.
func Reports[K comparable](store *library.RecordStore, groups []Group[K], cmp Comparator) []Report[K] {
	out := make([]Report[K], len(groups))
	for i, g := range groups {
		out[i] = Report[K]{Key: g.Key, Rows: Similarity(store, g.Paths, cmp)}
	}
	return out
}
