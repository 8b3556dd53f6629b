// Package enzyme describes restriction enzymes by their recognition site and
// fixed cut geometry, and resolves them by name.
package enzyme

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dnamix/internal/dna"
)

var (
	ErrUnknown  = errors.New("enzyme: unknown enzyme")
	ErrNotation = errors.New("enzyme: invalid recognition sequence format")
)

// Enzyme cuts the top strand TopCut bases after the end of its site and the
// bottom strand BottomCut bases after it. Negative offsets fall inside or
// before the site.
type Enzyme struct {
	Name      string
	Site      string
	TopCut    int
	BottomCut int
}

// OverhangLen is positive for 5' overhangs, negative for 3' ones and zero for
// blunt cutters.
func (e Enzyme) OverhangLen() int { return e.BottomCut - e.TopCut }

// Palindromic enzymes find the same site on both strands.
func (e Enzyme) Palindromic() bool { return dna.IsPalindrome(e.Site) }

func (e Enzyme) String() string {
	return fmt.Sprintf("%s %s(%d/%d)", e.Name, e.Site, e.TopCut, e.BottomCut)
}

// Cut is the pair of nicks an enzyme leaves at one site, in top-strand
// coordinates of the searched sequence.
type Cut struct {
	Top     int
	Bottom  int
	Forward bool
}

// Cuts locates every site of e on both strands of seq and returns the cut
// coordinates. For circular sequences, sites spanning the origin are found too;
// coordinates are not wrapped and may fall outside [0, len(seq)].
func (e Enzyme) Cuts(seq string, circular bool) []Cut {
	n, l := len(seq), len(e.Site)
	search := seq
	if circular && n > 0 && l > 1 {
		// the origin is spanned by at most l-1 bases
		search = seq + strings.Repeat(seq, (l-1)/n+1)[:l-1]
	}
	var cuts []Cut
	for _, p := range dna.FindAll(search, e.Site) {
		if p >= n {
			continue
		}
		cuts = append(cuts, Cut{Top: p + l + e.TopCut, Bottom: p + l + e.BottomCut, Forward: true})
	}
	if e.Palindromic() {
		return cuts
	}
	for _, p := range dna.FindAll(search, dna.ReverseComplement(e.Site)) {
		if p >= n {
			continue
		}
		// read from the bottom strand, the enzyme cuts upstream of the site
		cuts = append(cuts, Cut{Top: p - e.BottomCut, Bottom: p - e.TopCut, Forward: false})
	}
	return cuts
}

// Parse builds an enzyme from REBASE notation: either SITE(n/m), with cut
// offsets counted from the end of the site, or SI^TE with the top-strand cut
// marked inside a palindromic site.
func Parse(name, notation string) (Enzyme, error) {
	notation = strings.ToUpper(strings.TrimSpace(notation))
	if strings.Contains(notation, "^") {
		parts := strings.Split(notation, "^")
		if len(parts) != 2 {
			return Enzyme{}, fmt.Errorf("%w: %s", ErrNotation, notation)
		}
		site := parts[0] + parts[1]
		i := len(parts[0])
		return checked(Enzyme{Name: name, Site: site, TopCut: i - len(site), BottomCut: -i})
	}

	// (n/m) format
	parts := strings.Split(notation, "(")
	if len(parts) != 2 || parts[0] == "" {
		return Enzyme{}, fmt.Errorf("%w: %s", ErrNotation, notation)
	}
	site := parts[0]
	cutPositions := strings.TrimRight(parts[1], ")")
	cutParts := strings.Split(cutPositions, "/")
	if len(cutParts) != 2 {
		return Enzyme{}, fmt.Errorf("%w: invalid cut positions %s", ErrNotation, cutPositions)
	}
	top, err := strconv.Atoi(cutParts[0])
	if err != nil {
		return Enzyme{}, fmt.Errorf("%w: invalid forward cut position %s", ErrNotation, cutParts[0])
	}
	bottom, err := strconv.Atoi(cutParts[1])
	if err != nil {
		return Enzyme{}, fmt.Errorf("%w: invalid reverse cut position %s", ErrNotation, cutParts[1])
	}
	return checked(Enzyme{Name: name, Site: site, TopCut: top, BottomCut: bottom})
}

// MustParse is Parse for the built-in table.
func MustParse(name, notation string) Enzyme {
	e, err := Parse(name, notation)
	if err != nil {
		panic(err)
	}
	return e
}

func checked(e Enzyme) (Enzyme, error) {
	if e.Site == "" {
		return Enzyme{}, fmt.Errorf("%w: %s has an empty site", ErrNotation, e.Name)
	}
	for i := 0; i < len(e.Site); i++ {
		if !dna.BaseMatch('A', e.Site[i]) && !dna.BaseMatch('C', e.Site[i]) &&
			!dna.BaseMatch('G', e.Site[i]) && !dna.BaseMatch('T', e.Site[i]) {
			return Enzyme{}, fmt.Errorf("%w: %s site %s", ErrNotation, e.Name, e.Site)
		}
	}
	return e, nil
}
