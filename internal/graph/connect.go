package graph

import (
	"dnamix/internal/fragment"
)

// Sticky connects fragments whose declared overhangs anneal.
type Sticky struct{}

func (Sticky) Connect(a, b *fragment.Fragment) (string, bool) {
	if !a.ClipsWith(b) {
		return "", false
	}
	return a.Right().TopStrand(), true
}

// Homology connects fragments sharing an identical terminal overlap: a suffix
// of a equal to a prefix of b, between Min and Max bases long. The longest
// overlap wins. A fragment closes on itself only through an overlap of at most
// half its length.
type Homology struct {
	Min, Max int
}

// DefaultMinHomology is the shortest overlap accepted for a Gibson junction.
const DefaultMinHomology = 10

func (h Homology) Connect(a, b *fragment.Fragment) (string, bool) {
	seqA, seqB := a.Sequence(), b.Sequence()
	minLen := h.Min
	if minLen <= 0 {
		minLen = DefaultMinHomology
	}
	maxLen := min(len(seqA), len(seqB)) - 1
	if a == b || a.Key() == b.Key() {
		maxLen = len(seqA) / 2
	}
	if h.Max > 0 && h.Max < maxLen {
		maxLen = h.Max
	}

	// Search for maximum overlap where seqA suffix matches seqB prefix
	for length := maxLen; length >= minLen; length-- {
		if seqA[len(seqA)-length:] == seqB[:length] {
			return seqB[:length], true
		}
	}
	return "", false
}
