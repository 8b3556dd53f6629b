// Package dna holds the immutable sequence model shared by every stage of a
// mix: bases, topology and labeled spans.
package dna

import (
	"errors"
	"fmt"
	"strings"
)

// AdapterLabel is the span label marking a pre-cut adapter region.
const AdapterLabel = "adapter"

var (
	ErrTopology = errors.New("dna: malformed topology")
	ErrSpan     = errors.New("dna: span out of bounds")
	ErrBases    = errors.New("dna: invalid bases")
)

// Topology tells whether a sequence wraps around.
type Topology int

const (
	Linear Topology = iota
	Circular
)

func (t Topology) String() string {
	switch t {
	case Linear:
		return "linear"
	case Circular:
		return "circular"
	}
	return fmt.Sprintf("Topology(%d)", int(t))
}

// ParseTopology accepts "linear" or "circular" in any case.
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "":
		return Linear, nil
	case "circular":
		return Circular, nil
	}
	return Linear, fmt.Errorf("%w: %q", ErrTopology, s)
}

// Span is a labeled half-open region [Start, End) on the top strand.
type Span struct {
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Strand int    `json:"strand"`
	Label  string `json:"label"`
}

// Len returns the number of bases covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Shift returns the span moved by offset bases.
func (s Span) Shift(offset int) Span {
	s.Start += offset
	s.End += offset
	return s
}

// Flip maps the span onto the reverse complement of a sequence of length n.
func (s Span) Flip(n int) Span {
	return Span{Start: n - s.End, End: n - s.Start, Strand: -s.Strand, Label: s.Label}
}

// Sequence is a DNA record: bases, topology and labeled spans. It is never
// mutated after New returns.
type Sequence struct {
	id       string
	bases    string
	topology Topology
	spans    []Span
	adapter  *Span
}

// Option configures a Sequence under construction.
type Option func(*Sequence)

// WithSpans attaches labeled spans.
func WithSpans(spans ...Span) Option {
	return func(s *Sequence) {
		s.spans = append(s.spans, spans...)
	}
}

// WithAdapter marks [start, end) as the adapter region and records it both as
// a typed field and as a labeled span.
func WithAdapter(start, end int) Option {
	return func(s *Sequence) {
		span := Span{Start: start, End: end, Strand: 1, Label: AdapterLabel}
		s.adapter = &span
		s.spans = append(s.spans, span)
	}
}

// New validates and builds a sequence. Bases are upper-cased.
func New(id, bases string, topology Topology, opts ...Option) (*Sequence, error) {
	if topology != Linear && topology != Circular {
		return nil, fmt.Errorf("%w: %s has %v", ErrTopology, id, topology)
	}
	bases = strings.ToUpper(strings.TrimSpace(bases))
	if i := strings.IndexFunc(bases, func(r rune) bool { return r > 0x7f || !isBase(byte(r)) }); i >= 0 {
		return nil, fmt.Errorf("%w: %s has %q at %d", ErrBases, id, bases[i], i)
	}
	s := &Sequence{id: id, bases: bases, topology: topology}
	for _, opt := range opts {
		opt(s)
	}
	for _, span := range s.spans {
		if span.Start < 0 || span.End > len(bases) || span.Start > span.End {
			return nil, fmt.Errorf("%w: %s [%d,%d) on %d bp", ErrSpan, id, span.Start, span.End, len(bases))
		}
	}
	return s, nil
}

// MustNew is New for fixtures that are known to be valid.
func MustNew(id, bases string, topology Topology, opts ...Option) *Sequence {
	s, err := New(id, bases, topology, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Sequence) ID() string         { return s.id }
func (s *Sequence) Bases() string      { return s.bases }
func (s *Sequence) Len() int           { return len(s.bases) }
func (s *Sequence) Topology() Topology { return s.topology }
func (s *Sequence) Circular() bool     { return s.topology == Circular }

// Labels returns a copy of the labeled spans.
func (s *Sequence) Labels() []Span {
	out := make([]Span, len(s.spans))
	copy(out, s.spans)
	return out
}

// Adapter returns the adapter region. Records built with WithAdapter answer
// from the typed field; others are scanned for a span labeled "adapter".
func (s *Sequence) Adapter() (Span, bool) {
	if s.adapter != nil {
		return *s.adapter, true
	}
	return s.FindLabel(AdapterLabel)
}

// FindLabel returns the first span whose label equals label.
func (s *Sequence) FindLabel(label string) (Span, bool) {
	for _, span := range s.spans {
		if span.Label == label {
			return span, true
		}
	}
	return Span{}, false
}

// WithTopology returns a copy of s with another topology.
func (s *Sequence) WithTopology(t Topology) *Sequence {
	out := *s
	out.topology = t
	out.spans = s.Labels()
	return &out
}

// ReverseComplement returns the opposite strand, spans flipped accordingly.
func (s *Sequence) ReverseComplement() *Sequence {
	out := &Sequence{id: s.id, bases: ReverseComplement(s.bases), topology: s.topology}
	for _, span := range s.spans {
		out.spans = append(out.spans, span.Flip(len(s.bases)))
	}
	if s.adapter != nil {
		a := s.adapter.Flip(len(s.bases))
		out.adapter = &a
	}
	return out
}

func (s *Sequence) String() string {
	return fmt.Sprintf("%s (%s, %d bp)", s.id, s.topology, len(s.bases))
}
