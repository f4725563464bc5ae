package fingerprint

import "math/bits"

// Similarity returns a score in [0,1] for two fingerprints, 1 meaning every
// bit of the overlapping frames agrees. Frames are compared position by
// position over the shorter of the two, so trailing length differences do
// not count against the score. The metric is symmetric in its arguments.
// If either fingerprint is empty the score is 0.
func Similarity(a, b Fingerprint) float64 {
	n := len(a.Frames)
	if len(b.Frames) < n {
		n = len(b.Frames)
	}
	if n == 0 {
		return 0
	}

	var distance int
	for i := 0; i < n; i++ {
		distance += bits.OnesCount32(a.Frames[i] ^ b.Frames[i])
	}
	return 1 - float64(distance)/float64(32*n)
}

// Comparator adapts Similarity to the interface consumers accept.
type Comparator struct{}

// Similarity implements the comparison contract with the package-level metric.
func (Comparator) Similarity(a, b Fingerprint) float64 {
	return Similarity(a, b)
}
