// Package assembly stitches fragments into products and enumerates the linear
// and circular assemblies of a connection graph.
package assembly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bebop/poly/seqhash"

	"dnamix/internal/dna"
	"dnamix/internal/fragment"
)

var (
	ErrNoParts  = errors.New("assembly: no fragments")
	ErrCircular = errors.New("assembly: circular assemblies have no free ends")
)

// Assembly is an ordered (linear) or cyclic (circular) run of fragments and
// the product they form.
type Assembly struct {
	parts     []*fragment.Fragment
	junctions []string
	circular  bool
	product   *dna.Sequence
}

// FromFragments checks that consecutive sticky ends anneal, the closing pair
// included when circular, and stitches parts together.
func FromFragments(parts []*fragment.Fragment, circular bool) (*Assembly, error) {
	if len(parts) == 0 {
		return nil, ErrNoParts
	}
	n := len(parts) - 1
	if circular {
		n = len(parts)
	}
	junctions := make([]string, 0, n)
	for i := 0; i < n; i++ {
		j, err := fragment.Junction(parts[i], parts[(i+1)%len(parts)])
		if err != nil {
			return nil, err
		}
		junctions = append(junctions, j)
	}
	return build(parts, junctions, circular)
}

// build writes every junction once: each part after the first loses the
// junction prefix it shares with its predecessor, and a circular product loses
// the closing junction at its end. junctions[i] joins parts[i] and parts[i+1].
func build(parts []*fragment.Fragment, junctions []string, circular bool) (*Assembly, error) {
	var (
		b     strings.Builder
		spans []dna.Span
	)
	for i, p := range parts {
		seq := p.Sequence()
		skip := 0
		if i > 0 {
			skip = len(junctions[i-1])
		}
		start := b.Len() - skip
		b.WriteString(seq[skip:])
		for _, s := range p.Labels() {
			spans = append(spans, s.Shift(start))
		}
	}
	bases := b.String()
	topology := dna.Linear
	if circular {
		bases = bases[:len(bases)-len(junctions[len(junctions)-1])]
		topology = dna.Circular
	}

	// labels running past the origin of a circular product are clipped there
	kept := spans[:0]
	for _, s := range spans {
		if s.Start >= len(bases) {
			continue
		}
		s.End = min(s.End, len(bases))
		kept = append(kept, s)
	}

	id, err := seqhash.Hash(bases, "DNA", circular, true)
	if err != nil {
		return nil, fmt.Errorf("hashing product: %w", err)
	}
	product, err := dna.New(id, bases, topology, dna.WithSpans(kept...))
	if err != nil {
		return nil, err
	}
	return &Assembly{
		parts:     parts,
		junctions: junctions,
		circular:  circular,
		product:   product,
	}, nil
}

// ID is the seqhash of the product; it is independent of rotation and strand.
func (a *Assembly) ID() string { return a.product.ID() }

func (a *Assembly) Product() *dna.Sequence { return a.product }
func (a *Assembly) Circular() bool         { return a.circular }
func (a *Assembly) Len() int               { return a.product.Len() }

// Parts returns the fragments in assembly order.
func (a *Assembly) Parts() []*fragment.Fragment {
	out := make([]*fragment.Fragment, len(a.parts))
	copy(out, a.parts)
	return out
}

// Junctions returns the overhangs or overlaps used, in assembly order. A
// circular assembly ends with the closing junction.
func (a *Assembly) Junctions() []string {
	out := make([]string, len(a.junctions))
	copy(out, a.junctions)
	return out
}

// Sources names the fragments in assembly order.
func (a *Assembly) Sources() []string {
	names := make([]string, len(a.parts))
	for i, p := range a.parts {
		names[i] = p.ID()
	}
	return names
}

// AsFragment turns a linear assembly into a fragment that keeps the outer
// ends of its first and last parts.
func (a *Assembly) AsFragment(source string) (*fragment.Fragment, error) {
	if a.circular {
		return nil, fmt.Errorf("%w: %s", ErrCircular, strings.Join(a.Sources(), " -> "))
	}
	left, right := a.parts[0].Left(), a.parts[len(a.parts)-1].Right()
	bases := a.product.Bases()
	body := bases[len(left.Seq) : len(bases)-len(right.Seq)]
	return fragment.New(source, body, left, right, fragment.WithSpans(a.product.Labels()...)), nil
}

func (a *Assembly) String() string {
	topology := "linear"
	if a.circular {
		topology = "circular"
	}
	return fmt.Sprintf("%s (%s, %d bp)", strings.Join(a.Sources(), " -> "), topology, a.Len())
}
