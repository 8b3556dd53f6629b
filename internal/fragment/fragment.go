// Package fragment models digested DNA: a body bounded by two sticky ends.
package fragment

import (
	"errors"
	"fmt"
	"strings"

	"dnamix/internal/dna"
)

var (
	ErrIncompatible     = errors.New("fragment: ends are not compatible")
	ErrOverhangMismatch = errors.New("fragment: overhang lengths differ")
)

// StickyEnd is a single-stranded overhang. Seq is read 5'->3' on the strand
// that carries it; Strand is +1 for the top strand and -1 for the bottom one.
// The zero value is an open (blunt or uncut) end.
type StickyEnd struct {
	Seq    string
	Strand int
}

// IsZero reports whether the end carries no overhang.
func (e StickyEnd) IsZero() bool { return e.Seq == "" }

// Compatible reports whether e anneals with o. The relation is symmetric.
func (e StickyEnd) Compatible(o StickyEnd) bool {
	if e.IsZero() || o.IsZero() || e.Strand == 0 {
		return false
	}
	return e.Strand == -o.Strand && e.Seq == dna.ReverseComplement(o.Seq)
}

// TopStrand returns the overhang bases as they read on the top strand.
func (e StickyEnd) TopStrand() string {
	if e.Strand < 0 {
		return dna.ReverseComplement(e.Seq)
	}
	return e.Seq
}

// Flip returns the end as seen once its fragment is reverse-complemented:
// same bases, other strand.
func (e StickyEnd) Flip() StickyEnd {
	return StickyEnd{Seq: e.Seq, Strand: -e.Strand}
}

func (e StickyEnd) String() string {
	if e.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s(%+d)", e.Seq, e.Strand)
}

// Fragment is an immutable piece of a digested construct.
type Fragment struct {
	source   string
	index    int
	body     string
	left     StickyEnd
	right    StickyEnd
	spans    []dna.Span
	reversed bool
	adapter  bool
}

// Option configures a Fragment under construction.
type Option func(*Fragment)

// WithIndex records the position of the fragment in its construct's digest.
func WithIndex(i int) Option { return func(f *Fragment) { f.index = i } }

// WithSpans attaches labels in full-sequence coordinates (left overhang included).
func WithSpans(spans ...dna.Span) Option {
	return func(f *Fragment) { f.spans = append(f.spans, spans...) }
}

// AsAdapter flags the fragment as a pre-cut adapter.
func AsAdapter() Option { return func(f *Fragment) { f.adapter = true } }

// New builds a fragment originating from the construct named source.
func New(source, body string, left, right StickyEnd, opts ...Option) *Fragment {
	f := &Fragment{
		source: source,
		body:   strings.ToUpper(body),
		left:   StickyEnd{Seq: strings.ToUpper(left.Seq), Strand: left.Strand},
		right:  StickyEnd{Seq: strings.ToUpper(right.Seq), Strand: right.Strand},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fragment) Source() string   { return f.source }
func (f *Fragment) Index() int       { return f.index }
func (f *Fragment) Body() string     { return f.body }
func (f *Fragment) Left() StickyEnd  { return f.left }
func (f *Fragment) Right() StickyEnd { return f.right }
func (f *Fragment) Reversed() bool   { return f.reversed }
func (f *Fragment) IsAdapter() bool  { return f.adapter }

// ID names the fragment after its construct, marking reverse complements.
func (f *Fragment) ID() string {
	if f.reversed {
		return f.source + "(rev_comp)"
	}
	return f.source
}

// Sequence returns the full top strand: left overhang, body, right overhang.
func (f *Fragment) Sequence() string {
	return f.left.TopStrand() + f.body + f.right.TopStrand()
}

// Bases is Sequence; it lets fragments go through filters.
func (f *Fragment) Bases() string { return f.Sequence() }

// Len counts both overhangs and the body.
func (f *Fragment) Len() int { return len(f.left.Seq) + len(f.body) + len(f.right.Seq) }

// Labels returns a copy of the fragment's labeled spans.
func (f *Fragment) Labels() []dna.Span {
	out := make([]dna.Span, len(f.spans))
	copy(out, f.spans)
	return out
}

// HasLabel reports whether any span is labeled label.
func (f *Fragment) HasLabel(label string) bool {
	for _, s := range f.spans {
		if s.Label == label {
			return true
		}
	}
	return false
}

// Reverse returns the reverse complement. Ends swap sides and strands.
func (f *Fragment) Reverse() *Fragment {
	n := f.Len()
	rc := &Fragment{
		source:   f.source,
		index:    f.index,
		body:     dna.ReverseComplement(f.body),
		left:     f.right.Flip(),
		right:    f.left.Flip(),
		reversed: !f.reversed,
		adapter:  f.adapter,
	}
	for _, s := range f.spans {
		rc.spans = append(rc.spans, s.Flip(n))
	}
	return rc
}

// Key identifies the fragment's structure: body and both ends. Fragments with
// equal keys are interchangeable in an assembly.
func (f *Fragment) Key() string {
	return fmt.Sprintf("%s/%d|%s|%s/%d", f.left.Seq, f.left.Strand, f.body, f.right.Seq, f.right.Strand)
}

// ClipsWith reports whether next can be ligated to the right of f.
func (f *Fragment) ClipsWith(next *Fragment) bool {
	return f.right.Compatible(next.left)
}

func (f *Fragment) String() string {
	return fmt.Sprintf("%s[%s %dbp %s]", f.ID(), f.left, len(f.body), f.right)
}

// Junction returns the top-strand overhang shared by a and b when b follows a.
func Junction(a, b *Fragment) (string, error) {
	r, l := a.Right(), b.Left()
	if !r.IsZero() && !l.IsZero() && len(r.Seq) != len(l.Seq) {
		return "", fmt.Errorf("%w: %s (%d) then %s (%d)", ErrOverhangMismatch, a.ID(), len(r.Seq), b.ID(), len(l.Seq))
	}
	if !r.Compatible(l) {
		return "", fmt.Errorf("%w: %s %s then %s %s", ErrIncompatible, a.ID(), r, b.ID(), l)
	}
	return r.TopStrand(), nil
}
