package indexer

import (
	"errors"

	"song-deduper/internal/errkind"
)

// Outcome classifies what happened to one catalogued path during a build.
type Outcome int

const (
	// OutcomeIndexed means a record was computed and stored.
	OutcomeIndexed Outcome = iota
	// OutcomeVanished means the file no longer existed at scan time.
	OutcomeVanished
	// OutcomeUnsupported means the catalog held an extension with no extraction rules.
	OutcomeUnsupported
	// OutcomeFailed means hashing, fingerprinting or tag extraction failed.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIndexed:
		return "indexed"
	case OutcomeVanished:
		return "vanished"
	case OutcomeUnsupported:
		return "unsupported"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileFailure describes a catalogued path that was left out of the store.
type FileFailure struct {
	Path    string `json:"path"`
	Outcome string `json:"outcome"`
	Kind    string `json:"kind"`
	Error   string `json:"error"`
}

// BuildStats summarizes a BuildOrLoad call.
type BuildStats struct {
	// Loaded is true when the store came from the cache and nothing was scanned.
	Loaded bool `json:"loaded"`
	// Rebuilt is true when a corrupt cache was quarantined and rebuilt.
	Rebuilt bool `json:"rebuilt"`
	// Entries is the number of records in the returned store.
	Entries     int `json:"entries"`
	Catalogued  int `json:"catalogued"`
	Indexed     int `json:"indexed"`
	Vanished    int `json:"vanished"`
	Unsupported int `json:"unsupported"`
	Failed      int `json:"failed"`
	// Failures lists unsupported and failed paths in catalog order.
	Failures []FileFailure `json:"failures,omitempty"`
}

func (s *BuildStats) add(r fileResult) {
	switch r.outcome {
	case OutcomeIndexed:
		s.Indexed++
		return
	case OutcomeVanished:
		s.Vanished++
		return
	case OutcomeUnsupported:
		s.Unsupported++
	case OutcomeFailed:
		s.Failed++
	}
	s.Failures = append(s.Failures, FileFailure{
		Path:    r.path,
		Outcome: r.outcome.String(),
		Kind:    errorKind(r.err),
		Error:   r.err.Error(),
	})
}

// errorKind names the errkind sentinel carried by err.
func errorKind(err error) string {
	switch {
	case errors.Is(err, errkind.ErrFingerprint):
		return "fingerprint"
	case errors.Is(err, errkind.ErrFormat):
		return "format"
	case errors.Is(err, errkind.ErrIO):
		return "io"
	default:
		return "other"
	}
}
