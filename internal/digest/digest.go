// Package digest cuts constructs into fragments with sticky ends, either with a
// restriction enzyme, by lifting out an annotated adapter, or not at all.
package digest

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/fragment"
)

var (
	ErrNoSite           = errors.New("no restriction site found")
	ErrNoEnzyme         = errors.New("no enzyme configured")
	ErrCircularHomology = errors.New("circular constructs cannot take part in homology assembly")
)

// Error reports which construct failed to digest.
type Error struct {
	Construct string
	Err       error
}

func (e *Error) Error() string { return fmt.Sprintf("digesting %s: %v", e.Construct, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Mode selects how constructs are cut.
type Mode int

const (
	// EnzymeMode cuts at every site of the configured enzyme.
	EnzymeMode Mode = iota
	// AdapterMode lifts out the "adapter" span, falling back to EnzymeMode.
	AdapterMode
	// HomologyMode keeps each construct whole.
	HomologyMode
)

func (m Mode) String() string {
	switch m {
	case EnzymeMode:
		return "enzyme"
	case AdapterMode:
		return "adapter"
	case HomologyMode:
		return "homology"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Digestor turns constructs into fragments. It holds no per-construct state
// and may be shared between mixes.
type Digestor struct {
	mode        Mode
	enzyme      *enzyme.Enzyme
	requireSite bool
	logger      *zap.Logger
}

// Option configures a Digestor.
type Option func(*Digestor)

// WithEnzyme sets the cutting enzyme.
func WithEnzyme(e enzyme.Enzyme) Option { return func(d *Digestor) { d.enzyme = &e } }

// WithMode sets the digestion mode.
func WithMode(m Mode) Option { return func(d *Digestor) { d.mode = m } }

// RequireSite makes a construct without any site a digestion error.
func RequireSite() Option { return func(d *Digestor) { d.requireSite = true } }

// WithLogger sets the logger used for per-construct debug output.
func WithLogger(l *zap.Logger) Option { return func(d *Digestor) { d.logger = l } }

// New returns a Digestor. Enzyme and adapter modes need an enzyme.
func New(opts ...Option) (*Digestor, error) {
	d := &Digestor{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	if d.mode == EnzymeMode && d.enzyme == nil {
		return nil, ErrNoEnzyme
	}
	return d, nil
}

func (d *Digestor) Mode() Mode { return d.mode }

// Enzyme returns the configured enzyme, if any.
func (d *Digestor) Enzyme() (enzyme.Enzyme, bool) {
	if d.enzyme == nil {
		return enzyme.Enzyme{}, false
	}
	return *d.enzyme, true
}

// Digest cuts construct into fragments.
func (d *Digestor) Digest(construct *dna.Sequence) ([]*fragment.Fragment, error) {
	var (
		frags []*fragment.Fragment
		err   error
	)
	switch d.mode {
	case HomologyMode:
		frags, err = whole(construct)
	case AdapterMode:
		if span, ok := construct.Adapter(); ok {
			frags = []*fragment.Fragment{adapterFragment(construct, span)}
			break
		}
		if d.enzyme == nil {
			return nil, &Error{Construct: construct.ID(), Err: ErrNoEnzyme}
		}
		frags, err = d.cut(construct)
	default:
		frags, err = d.cut(construct)
	}
	if err != nil {
		return nil, &Error{Construct: construct.ID(), Err: err}
	}
	d.logger.Debug("digested construct",
		zap.String("construct", construct.ID()),
		zap.Stringer("mode", d.mode),
		zap.Int("fragments", len(frags)))
	return frags, nil
}

// whole keeps a linear construct as one fragment without declared ends.
func whole(construct *dna.Sequence) ([]*fragment.Fragment, error) {
	if construct.Circular() {
		return nil, ErrCircularHomology
	}
	return []*fragment.Fragment{
		fragment.New(construct.ID(), construct.Bases(), fragment.StickyEnd{}, fragment.StickyEnd{},
			fragment.WithSpans(construct.Labels()...)),
	}, nil
}

// adapterFragment lifts out span. The flanks become 5' overhangs: the left one
// on the top strand, the right one on the bottom strand.
func adapterFragment(construct *dna.Sequence, span dna.Span) *fragment.Fragment {
	seq := construct.Bases()
	left := fragment.StickyEnd{Seq: seq[:span.Start], Strand: 1}
	right := fragment.StickyEnd{Seq: dna.ReverseComplement(seq[span.End:]), Strand: -1}
	if left.Seq == "" {
		left = fragment.StickyEnd{}
	}
	if right.Seq == "" {
		right = fragment.StickyEnd{}
	}
	label := dna.Span{Start: span.Start, End: span.End, Strand: 1, Label: dna.AdapterLabel}
	return fragment.New(construct.ID(), seq[span.Start:span.End], left, right,
		fragment.AsAdapter(), fragment.WithSpans(label))
}

// junction is one cut site: the overhang spans [lo, hi) in top-strand
// coordinates and fivePrime tells which strand carries it.
type junction struct {
	lo, hi    int
	fivePrime bool
}

// upstream is the end left on the fragment before the junction.
func (j junction) upstream(seq string) fragment.StickyEnd {
	o := seq[j.lo:j.hi]
	switch {
	case o == "":
		return fragment.StickyEnd{}
	case j.fivePrime:
		return fragment.StickyEnd{Seq: dna.ReverseComplement(o), Strand: -1}
	default:
		return fragment.StickyEnd{Seq: o, Strand: 1}
	}
}

// downstream is the end left on the fragment after the junction.
func (j junction) downstream(seq string) fragment.StickyEnd {
	o := seq[j.lo:j.hi]
	switch {
	case o == "":
		return fragment.StickyEnd{}
	case j.fivePrime:
		return fragment.StickyEnd{Seq: o, Strand: 1}
	default:
		return fragment.StickyEnd{Seq: dna.ReverseComplement(o), Strand: -1}
	}
}

func (d *Digestor) junctions(construct *dna.Sequence) []junction {
	n := construct.Len()
	if n == 0 {
		return nil
	}
	seen := map[[2]int]bool{}
	var js []junction
	for _, c := range d.enzyme.Cuts(construct.Bases(), construct.Circular()) {
		lo, hi := min(c.Top, c.Bottom), max(c.Top, c.Bottom)
		if construct.Circular() {
			shift := lo - mod(lo, n)
			lo, hi = lo-shift, hi-shift
		} else if lo < 0 || hi > n {
			// the cut falls outside the molecule
			continue
		}
		key := [2]int{lo, hi}
		if seen[key] {
			continue
		}
		seen[key] = true
		js = append(js, junction{lo: lo, hi: hi, fivePrime: c.Top < c.Bottom})
	}
	sort.Slice(js, func(a, b int) bool { return js[a].lo < js[b].lo })

	// overlapping overhangs cannot both be cut; the upstream one wins
	kept := js[:0]
	for _, j := range js {
		if len(kept) > 0 && j.lo < kept[len(kept)-1].hi {
			continue
		}
		kept = append(kept, j)
	}
	if construct.Circular() && len(kept) > 1 && kept[len(kept)-1].hi > kept[0].lo+n {
		kept = kept[:len(kept)-1]
	}
	return kept
}

func (d *Digestor) cut(construct *dna.Sequence) ([]*fragment.Fragment, error) {
	js := d.junctions(construct)
	if len(js) == 0 {
		if d.requireSite {
			return nil, fmt.Errorf("%w for %s", ErrNoSite, d.enzyme.Name)
		}
		if construct.Circular() {
			// an uncut circle has no free ends to ligate
			return nil, nil
		}
		return whole(construct)
	}

	n := construct.Len()
	seq := construct.Bases()
	if construct.Circular() {
		wrap := junction{lo: js[0].lo + n, hi: js[0].hi + n, fivePrime: js[0].fivePrime}
		ends := append(append([]junction{}, js[1:]...), wrap)
		return d.fragments(construct, seq+seq+seq, js, ends), nil
	}
	bounds := make([]junction, 0, len(js)+2)
	bounds = append(bounds, junction{})
	bounds = append(bounds, js...)
	bounds = append(bounds, junction{lo: n, hi: n})
	return d.fragments(construct, seq, bounds[:len(bounds)-1], bounds[1:]), nil
}

// fragments cuts seq between each starts[i] and ends[i].
func (d *Digestor) fragments(construct *dna.Sequence, seq string, starts, ends []junction) []*fragment.Fragment {
	labels := construct.Labels()
	n := construct.Len()
	frags := make([]*fragment.Fragment, 0, len(starts))
	for i := range starts {
		from, to := starts[i], ends[i]
		left := from.downstream(seq)
		right := to.upstream(seq)
		var spans []dna.Span
		for _, s := range labels {
			// on circular constructs a fragment may lie past the origin
			for _, shifted := range []dna.Span{s, s.Shift(n)} {
				if shifted.Start >= from.lo && shifted.End <= to.hi {
					spans = append(spans, shifted.Shift(-from.lo))
					break
				}
			}
		}
		frags = append(frags, fragment.New(construct.ID(), seq[from.hi:to.lo], left, right,
			fragment.WithIndex(i), fragment.WithSpans(spans...)))
	}
	return frags
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
