// Package mix simulates an assembly reaction: constructs are digested, the
// admitted fragments are connected into a graph and the graph is searched for
// linear and circular products.
package mix

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"dnamix/internal/assembly"
	"dnamix/internal/digest"
	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/filter"
	"dnamix/internal/fragment"
	"dnamix/internal/graph"
	"dnamix/internal/metrics"
)

// ErrNoInput is returned for a mix without constructs or fragments.
var ErrNoInput = errors.New("mix: no constructs or fragments")

// Mix is built once and read-only afterwards; queries may run concurrently.
type Mix struct {
	id         string
	constructs []*dna.Sequence
	digestor   *digest.Digestor
	connector  graph.Connector
	admission  filter.Chain
	reverse    bool
	budget     assembly.Budget
	logger     *zap.Logger
	metrics    *metrics.Recorder

	given     []*fragment.Fragment
	fragments []*fragment.Fragment
	graph     *graph.Graph
}

type settings struct {
	enzyme     *enzyme.Enzyme
	mode       digest.Mode
	homology   graph.Homology
	requireCut bool
}

// Option configures a Mix.
type Option func(*Mix, *settings)

// WithEnzyme sets the enzyme used for digestion.
func WithEnzyme(e enzyme.Enzyme) Option {
	return func(_ *Mix, s *settings) { s.enzyme = &e }
}

// WithAdapters lifts "adapter" spans out of constructs instead of cutting them.
func WithAdapters() Option {
	return func(_ *Mix, s *settings) { s.mode = digest.AdapterMode }
}

// WithHomology joins fragments through terminal overlaps of minLen to maxLen
// bases. Zero bounds take the defaults of graph.Homology.
func WithHomology(minLen, maxLen int) Option {
	return func(_ *Mix, s *settings) {
		s.mode = digest.HomologyMode
		s.homology = graph.Homology{Min: minLen, Max: maxLen}
	}
}

// RequireSites makes a construct without any enzyme site a digestion error.
func RequireSites() Option {
	return func(_ *Mix, s *settings) { s.requireCut = true }
}

// WithFragments adds ready-made fragments next to the digested ones.
func WithFragments(frags ...*fragment.Fragment) Option {
	return func(m *Mix, _ *settings) { m.given = append(m.given, frags...) }
}

// WithFragmentFilters appends admission filters applied right after digestion.
func WithFragmentFilters(fs ...filter.Filter) Option {
	return func(m *Mix, _ *settings) { m.admission = append(m.admission, fs...) }
}

// WithReverseFragments controls whether reverse complements enter the graph
// (default true).
func WithReverseFragments(on bool) Option {
	return func(m *Mix, _ *settings) { m.reverse = on }
}

// WithBudget sets the default search budget of the mix's queries.
func WithBudget(b assembly.Budget) Option {
	return func(m *Mix, _ *settings) { m.budget = b }
}

func WithLogger(l *zap.Logger) Option {
	return func(m *Mix, _ *settings) { m.logger = l }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Mix, _ *settings) { m.metrics = r }
}

// New digests constructs, filters the fragments and builds the graph.
func New(constructs []*dna.Sequence, opts ...Option) (*Mix, error) {
	m := &Mix{
		id:         uuid.NewString(),
		constructs: constructs,
		connector:  graph.Sticky{},
		reverse:    true,
		logger:     zap.NewNop(),
	}
	var s settings
	for _, opt := range opts {
		opt(m, &s)
	}
	if len(constructs) == 0 && len(m.given) == 0 {
		return nil, ErrNoInput
	}
	m.logger = m.logger.With(zap.String("mix", m.id))

	dopts := []digest.Option{digest.WithMode(s.mode), digest.WithLogger(m.logger)}
	if s.enzyme != nil {
		dopts = append(dopts, digest.WithEnzyme(*s.enzyme))
	}
	if s.requireCut {
		dopts = append(dopts, digest.RequireSite())
	}
	if s.mode == digest.HomologyMode {
		m.connector = s.homology
	}
	d, err := digest.New(dopts...)
	if err != nil {
		return nil, fmt.Errorf("mix: %w", err)
	}
	m.digestor = d

	if err := m.compute(); err != nil {
		return nil, err
	}
	m.logger.Info("mix ready",
		zap.Stringer("mode", s.mode),
		zap.Int("constructs", len(constructs)),
		zap.Int("fragments", len(m.fragments)),
		zap.Int("nodes", m.graph.Len()),
		zap.Int("edges", m.graph.EdgeCount()))
	return m, nil
}

func (m *Mix) compute() error {
	var frags []*fragment.Fragment
	for _, c := range m.constructs {
		cut, err := m.ComputeDigest(c)
		if err != nil {
			return err
		}
		frags = append(frags, cut...)
	}
	frags = append(frags, m.given...)

	for _, f := range frags {
		if rejected, ok := m.admission.Rejecting(f); !ok {
			m.logger.Debug("fragment rejected",
				zap.Stringer("fragment", f),
				zap.String("filter", rejected.Name()))
			continue
		}
		m.fragments = append(m.fragments, f)
	}

	g, err := graph.Build(m.fragments, m.connector, graph.WithReverse(m.reverse))
	if err != nil {
		return fmt.Errorf("mix %s: %w", m.id, err)
	}
	m.graph = g
	return nil
}

// ID identifies the mix in logs.
func (m *Mix) ID() string { return m.id }

// ComputeDigest cuts one construct the way this mix does.
func (m *Mix) ComputeDigest(construct *dna.Sequence) ([]*fragment.Fragment, error) {
	frags, err := m.digestor.Digest(construct)
	if err != nil {
		return nil, err
	}
	m.metrics.Digested(m.digestor.Mode().String(), len(frags))
	return frags, nil
}

// Fragments returns the admitted fragments, reverse complements excluded.
func (m *Mix) Fragments() []*fragment.Fragment {
	out := make([]*fragment.Fragment, len(m.fragments))
	copy(out, m.fragments)
	return out
}

// Graph returns the connection graph. It must not be modified.
func (m *Mix) Graph() *graph.Graph { return m.graph }

// Constructs returns the input constructs.
func (m *Mix) Constructs() []*dna.Sequence { return m.constructs }

// Query selects assemblies.
type Query struct {
	MinParts int
	MaxParts int
	// FragmentFilters restrict which fragments may appear in an assembly.
	FragmentFilters filter.Chain
	// Filters accept or reject the assembled product.
	Filters filter.Chain
	// Start and End restrict the extremities of linear assemblies.
	Start filter.Chain
	End   filter.Chain
	// Unique drops products identical to one already reported.
	Unique bool
	// Budget overrides the mix's budget when non-zero.
	Budget assembly.Budget
}

// LinearAssemblies lazily enumerates linear products. Each call starts over.
func (m *Mix) LinearAssemblies(q Query) iter.Seq2[*assembly.Assembly, error] {
	return m.assemblies(q, false)
}

// CircularAssemblies lazily enumerates circular products. Each call starts over.
func (m *Mix) CircularAssemblies(q Query) iter.Seq2[*assembly.Assembly, error] {
	return m.assemblies(q, true)
}

func (m *Mix) assemblies(q Query, circular bool) iter.Seq2[*assembly.Assembly, error] {
	topology := dna.Linear
	if circular {
		topology = dna.Circular
	}
	opts := assembly.Options{
		MinParts: q.MinParts,
		MaxParts: q.MaxParts,
		Filters:  q.Filters,
		Start:    q.Start,
		End:      q.End,
		Unique:   q.Unique,
		Budget:   m.budget,
	}
	if q.Budget != (assembly.Budget{}) {
		opts.Budget = q.Budget
	}
	if len(q.FragmentFilters) > 0 {
		// every fragment but the first of a linear path is entered by an edge
		opts.EdgeFilter = func(e graph.Edge) bool {
			return q.FragmentFilters.Accepts(m.graph.Node(e.To).Fragment)
		}
		opts.Start = append(append(filter.Chain{}, q.FragmentFilters...), q.Start...)
	}

	return func(yield func(*assembly.Assembly, error) bool) {
		began := time.Now()
		opts := opts
		opts.Observer = func(s assembly.Stats) {
			m.metrics.Enumerated(topology.String(), s.Results, s.Visits, s.Exceeded, time.Since(began))
			m.logger.Debug("enumeration finished",
				zap.Stringer("topology", topology),
				zap.Int("results", s.Results),
				zap.Int("visits", s.Visits),
				zap.Int("rejected", s.Rejected),
				zap.Int("duplicates", s.Duplicates),
				zap.Bool("exceeded", s.Exceeded),
				zap.Duration("elapsed", time.Since(began)))
		}
		e := assembly.NewEnumerator(m.graph, opts)
		seq := e.Linear()
		if circular {
			seq = e.Circular()
		}
		for a, err := range seq {
			if errors.Is(err, assembly.ErrSearchExceeded) {
				m.logger.Warn("search budget exceeded", zap.Stringer("topology", topology), zap.Error(err))
			}
			if !yield(a, err) {
				return
			}
		}
	}
}

// NewGoldenGate sets up a Type IIS ligation: constructs are cut with e and
// fragments still carrying a site of e are dropped.
func NewGoldenGate(constructs []*dna.Sequence, e enzyme.Enzyme, opts ...Option) (*Mix, error) {
	base := []Option{WithEnzyme(e), WithFragmentFilters(filter.NoRestrictionSite(e))}
	return New(constructs, append(base, opts...)...)
}

// NewGibson sets up a homology assembly with overlaps of minLen to maxLen bases.
func NewGibson(constructs []*dna.Sequence, minLen, maxLen int, opts ...Option) (*Mix, error) {
	return New(constructs, append([]Option{WithHomology(minLen, maxLen)}, opts...)...)
}

// NewBASIC sets up a linker ligation: adapters are lifted out as they are and
// other constructs are cut with e.
func NewBASIC(constructs []*dna.Sequence, e enzyme.Enzyme, opts ...Option) (*Mix, error) {
	base := []Option{
		WithEnzyme(e),
		WithAdapters(),
		WithFragmentFilters(filter.Any(filter.HasLabel(dna.AdapterLabel), filter.NoRestrictionSite(e))),
	}
	return New(constructs, append(base, opts...)...)
}
