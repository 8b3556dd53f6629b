package output

import (
	"slices"

	"github.com/bebop/poly/synthesis/codon"

	"dnamix/internal/dna"
)

// MinORFLength is the shortest ORF, stop codon included, listed in reports.
var MinORFLength = 300

// ORF is a stop-terminated open reading frame of a product. Start and End
// are top-strand coordinates, End exclusive. On a circular product an ORF
// spanning the origin has End past the product length.
type ORF struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	Strand      int    `json:"strand"`
	Frame       int    `json:"frame"`
	Translation string `json:"translation"`
}

// bacterial table; products are mostly plasmids
const codonTable = 11

// FindORFs scans the three frames of both strands of seq. An ORF runs from an
// ATG to the next in-frame stop; starts nested in a longer ORF with the same
// stop are not reported. When circular is set, reading continues across the
// origin for at most one lap.
func FindORFs(seq string, circular bool, minLength int) ([]ORF, error) {
	t, err := codon.NewTranslationTable(codonTable)
	if err != nil {
		return nil, err
	}
	n := len(seq)
	if n == 0 {
		return nil, nil
	}
	var orfs []ORF
	for _, strand := range []int{1, -1} {
		s := seq
		if strand < 0 {
			s = dna.ReverseComplement(seq)
		}
		starts, limit := len(s), len(s)
		if circular {
			s += s[:n-1]
			starts, limit = n, n
		}

		// stop position (mod n) to the earliest start reaching it
		longest := make(map[int]ORF)
		for start := 0; start < starts && start+3 <= len(s); start++ {
			if s[start:start+3] != "ATG" {
				continue
			}
			for i := start + 3; i+3 <= len(s) && i+3-start <= limit; i += 3 {
				if !slices.Contains(t.StopCodons, s[i:i+3]) {
					continue
				}
				end := i + 3
				if prev, ok := longest[end%n]; !ok || end-start > prev.End-prev.Start {
					longest[end%n] = ORF{Start: start, End: end, Strand: strand, Frame: start%3 + 1}
				}
				break
			}
		}

		found := make([]ORF, 0, len(longest))
		for _, orf := range longest {
			if orf.End-orf.Start < minLength {
				continue
			}
			if orf.Translation, err = t.Translate(s[orf.Start:orf.End]); err != nil {
				return nil, err
			}
			if strand < 0 {
				orf.Start, orf.End = n-orf.End, n-orf.Start
				if orf.Start < 0 {
					orf.Start, orf.End = orf.Start+n, orf.End+n
				}
			}
			found = append(found, orf)
		}
		slices.SortFunc(found, func(a, b ORF) int {
			if a.Frame != b.Frame {
				return a.Frame - b.Frame
			}
			return a.Start - b.Start
		})
		orfs = append(orfs, found...)
	}
	return orfs, nil
}
