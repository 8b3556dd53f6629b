package assembly

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"dnamix/internal/filter"
	"dnamix/internal/fragment"
	"dnamix/internal/graph"
)

// ErrSearchExceeded closes an enumeration cut short by its budget. The
// assemblies yielded before it are valid.
var ErrSearchExceeded = errors.New("assembly: search budget exceeded")

// Budget bounds an enumeration. Zero fields are unlimited.
type Budget struct {
	// MaxResults stops the search when one more accepted assembly is found.
	MaxResults int
	// MaxDepth prunes paths longer than this many fragments.
	MaxDepth int
	// MaxVisits caps the number of nodes pushed on the search stack.
	MaxVisits int
}

// Stats describes a finished (or abandoned) enumeration.
type Stats struct {
	Visits     int
	Results    int
	Rejected   int
	Duplicates int
	Pruned     int
	Exceeded   bool
}

// Options shape an enumeration.
type Options struct {
	// MinParts and MaxParts bound the number of fragments. MaxParts zero is
	// unbounded; MinParts defaults to one.
	MinParts int
	MaxParts int
	// Filters accept or reject the stitched product.
	Filters filter.Chain
	// Start and End restrict the first and last fragment of linear assemblies.
	Start filter.Chain
	End   filter.Chain
	// EdgeFilter, when set, drops edges during traversal.
	EdgeFilter func(graph.Edge) bool
	// Unique drops products whose seqhash was already reported.
	Unique   bool
	Budget   Budget
	Observer func(Stats)
}

// Enumerator walks a graph for assemblies. It never modifies the graph, and
// every call to Circular or Linear starts from scratch.
type Enumerator struct {
	g    *graph.Graph
	opts Options
}

func NewEnumerator(g *graph.Graph, opts Options) *Enumerator {
	return &Enumerator{g: g, opts: opts}
}

// Circular yields every simple cycle once, starting at its lowest node.
// Rotations and mirror images (the cycle read on the other strand) are
// reported once.
func (e *Enumerator) Circular() iter.Seq2[*Assembly, error] {
	return e.iterate(true)
}

// Linear yields every simple path once; a path and its mirror image count as one.
func (e *Enumerator) Linear() iter.Seq2[*Assembly, error] {
	return e.iterate(false)
}

func (e *Enumerator) iterate(circular bool) iter.Seq2[*Assembly, error] {
	return func(yield func(*Assembly, error) bool) {
		s := &search{
			g:        e.g,
			opts:     e.opts,
			circular: circular,
			yield:    yield,
			onPath:   make([]bool, e.g.Len()),
			seen:     map[string]bool{},
			products: map[string]bool{},
		}
		s.run()
		if e.opts.Observer != nil {
			e.opts.Observer(s.stats)
		}
	}
}

// Collect drains seq. On error it returns the assemblies gathered so far.
func Collect(seq iter.Seq2[*Assembly, error]) ([]*Assembly, error) {
	var out []*Assembly
	for a, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, a)
	}
	return out, nil
}

type step struct {
	node int
	// next is the index of the next out-edge to try.
	next int
	// junction joins this step to the previous one.
	junction string
}

type search struct {
	g        *graph.Graph
	opts     Options
	circular bool
	yield    func(*Assembly, error) bool
	onPath   []bool
	seen     map[string]bool
	products map[string]bool
	stats    Stats
	// done is set once the consumer stopped or an error was yielded.
	done bool
}

func (s *search) run() {
	for start := 0; start < s.g.Len(); start++ {
		if !s.circular && !s.opts.Start.Accepts(s.g.Node(start).Fragment) {
			continue
		}
		if !s.from(start) {
			break
		}
	}
	if !s.done && s.stats.Exceeded {
		s.yield(nil, fmt.Errorf("%w: %d results after %d visits", ErrSearchExceeded, s.stats.Results, s.stats.Visits))
	}
}

// from runs a depth-first search rooted at start. Circular searches only use
// nodes above start, so each cycle is found from its lowest node. It returns
// false when the whole search must stop.
func (s *search) from(start int) bool {
	if !s.visit() {
		return false
	}
	path := []step{{node: start}}
	s.onPath[start] = true
	defer func() {
		for _, st := range path {
			s.onPath[st.node] = false
		}
	}()
	if !s.circular && !s.offer(path, "") {
		return false
	}

	for len(path) > 0 {
		top := &path[len(path)-1]
		out := s.g.Out(top.node)
		if top.next == len(out) {
			s.onPath[top.node] = false
			path = path[:len(path)-1]
			continue
		}
		edge := out[top.next]
		top.next++

		if s.opts.EdgeFilter != nil && !s.opts.EdgeFilter(edge) {
			s.stats.Pruned++
			continue
		}
		if s.circular && edge.To == start {
			if !s.offer(path, edge.Junction) {
				return false
			}
			continue
		}
		if (s.circular && edge.To < start) || s.blocked(edge.To) {
			continue
		}
		if s.opts.MaxParts > 0 && len(path) >= s.opts.MaxParts {
			continue
		}
		if d := s.opts.Budget.MaxDepth; d > 0 && len(path) >= d {
			s.stats.Pruned++
			s.stats.Exceeded = true
			continue
		}
		if !s.visit() {
			return false
		}
		path = append(path, step{node: edge.To, junction: edge.Junction})
		s.onPath[edge.To] = true
		if !s.circular && !s.offer(path, "") {
			return false
		}
	}
	return true
}

// blocked reports whether n, or the reverse complement of n, is already used.
func (s *search) blocked(n int) bool {
	if s.onPath[n] {
		return true
	}
	r := s.g.Node(n).Reverse
	return r >= 0 && s.onPath[r]
}

func (s *search) visit() bool {
	if m := s.opts.Budget.MaxVisits; m > 0 && s.stats.Visits >= m {
		s.stats.Exceeded = true
		return false
	}
	s.stats.Visits++
	return true
}

// offer stitches the current path, closed by closing when circular, and hands
// it to the consumer if every filter accepts it.
func (s *search) offer(path []step, closing string) bool {
	if len(path) < max(1, s.opts.MinParts) {
		return true
	}
	last := s.g.Node(path[len(path)-1].node).Fragment
	if !s.circular && !s.opts.End.Accepts(last) {
		return true
	}

	nodes := make([]int, len(path))
	for i, st := range path {
		nodes[i] = st.node
	}
	key := s.canonical(nodes)
	if s.seen[key] {
		s.stats.Duplicates++
		return true
	}
	s.seen[key] = true

	parts := make([]*fragment.Fragment, len(path))
	junctions := make([]string, 0, len(path))
	for i, st := range path {
		parts[i] = s.g.Node(st.node).Fragment
		if i > 0 {
			junctions = append(junctions, st.junction)
		}
	}
	if s.circular {
		junctions = append(junctions, closing)
	}
	a, err := build(parts, junctions, s.circular)
	if err != nil {
		s.done = true
		s.yield(nil, err)
		return false
	}
	if !s.opts.Filters.Accepts(a.Product()) {
		s.stats.Rejected++
		return true
	}
	if s.opts.Unique {
		if s.products[a.ID()] {
			s.stats.Duplicates++
			return true
		}
		s.products[a.ID()] = true
	}
	if m := s.opts.Budget.MaxResults; m > 0 && s.stats.Results >= m {
		s.stats.Exceeded = true
		return false
	}
	s.stats.Results++
	if !s.yield(a, nil) {
		s.done = true
		return false
	}
	return true
}

// canonical keys a path so that it and its mirror image (the same molecule
// read on the other strand) share one key.
func (s *search) canonical(nodes []int) string {
	key := joinInts(nodes)
	mirror := make([]int, len(nodes))
	for i, n := range nodes {
		r := s.g.Node(n).Reverse
		if r < 0 {
			return key
		}
		mirror[len(nodes)-1-i] = r
	}
	if s.circular {
		mirror = rotateToMin(mirror)
	}
	if m := joinInts(mirror); m < key {
		return m
	}
	return key
}

func rotateToMin(cycle []int) []int {
	lo := 0
	for i, n := range cycle {
		if n < cycle[lo] {
			lo = i
		}
	}
	return append(append([]int{}, cycle[lo:]...), cycle[:lo]...)
}

func joinInts(ns []int) string {
	var b strings.Builder
	for i, n := range ns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}
