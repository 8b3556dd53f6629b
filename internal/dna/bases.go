package dna

import (
	"strings"

	"github.com/bebop/poly/transform"
)

// iupac maps every accepted code to the bases it stands for.
var iupac = map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'T': "T",
	'R': "AG", 'Y': "CT", 'S': "GC", 'W': "AT",
	'K': "GT", 'M': "AC", 'B': "CGT", 'D': "AGT",
	'H': "ACT", 'V': "ACG", 'N': "ACGT",
}

func isBase(b byte) bool {
	_, ok := iupac[b]
	return ok
}

// ReverseComplement returns the reverse complement of an upper-case sequence.
func ReverseComplement(seq string) string {
	if seq == "" {
		return ""
	}
	return strings.ToUpper(transform.ReverseComplement(seq))
}

// IsPalindrome reports whether seq reads the same on both strands.
func IsPalindrome(seq string) bool {
	return seq != "" && seq == ReverseComplement(seq)
}

// BaseMatch reports whether base g is allowed by IUPAC code p.
// Example: BaseMatch('G','R') == true because R = {A,G}
func BaseMatch(g, p byte) bool {
	allowed, ok := iupac[p]
	if !ok {
		return false
	}
	return strings.IndexByte(allowed, g) >= 0
}

// FindAll returns every start position (overlaps included) where pattern,
// which may hold IUPAC codes, matches seq.
func FindAll(seq, pattern string) []int {
	if pattern == "" || len(pattern) > len(seq) {
		return nil
	}
	var hits []int
	for i := 0; i+len(pattern) <= len(seq); i++ {
		ok := true
		for j := 0; j < len(pattern); j++ {
			if !BaseMatch(seq[i+j], pattern[j]) {
				ok = false
				break
			}
		}
		if ok {
			hits = append(hits, i)
		}
	}
	return hits
}

// ContainsSite reports whether pattern occurs on either strand of seq.
func ContainsSite(seq, pattern string) bool {
	return len(FindAll(seq, pattern)) > 0 || len(FindAll(seq, ReverseComplement(pattern))) > 0
}
