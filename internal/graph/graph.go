// Package graph builds the connection graph of a mix: one node per distinct
// fragment (reverse complements included) and one edge per pair of fragments
// that can be ligated in that order.
package graph

import (
	"errors"

	"dnamix/internal/fragment"
)

// ErrEmpty is returned when no fragment survives admission.
var ErrEmpty = errors.New("graph: no fragments to connect")

// Connector decides whether b can follow a and returns the shared junction
// as it reads on the top strand.
type Connector interface {
	Connect(a, b *fragment.Fragment) (junction string, ok bool)
}

// Node groups structurally identical fragments.
type Node struct {
	Index    int
	Fragment *fragment.Fragment
	// Count is the number of input fragments merged into this node.
	Count int
	// Sources lists the constructs the merged fragments came from.
	Sources []string
	// Reverse is the index of the node holding the reverse complement, or -1.
	Reverse int
}

// Edge joins the right end of From to the left end of To.
type Edge struct {
	From, To int
	Junction string
}

// Graph is read-only once built.
type Graph struct {
	nodes []*Node
	out   [][]Edge
	in    [][]Edge
}

type config struct {
	reverse bool
}

// Option configures Build.
type Option func(*config)

// WithReverse adds the reverse complement of every fragment (default true).
func WithReverse(on bool) Option { return func(c *config) { c.reverse = on } }

// Build uniquifies frags and connects every ordered pair of nodes, a node with
// itself included.
func Build(frags []*fragment.Fragment, conn Connector, opts ...Option) (*Graph, error) {
	cfg := config{reverse: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(frags) == 0 {
		return nil, ErrEmpty
	}

	g := &Graph{}
	byKey := map[string]int{}
	add := func(f *fragment.Fragment) int {
		if i, ok := byKey[f.Key()]; ok {
			return i
		}
		i := len(g.nodes)
		byKey[f.Key()] = i
		g.nodes = append(g.nodes, &Node{Index: i, Fragment: f, Reverse: -1})
		return i
	}

	forward := make([]int, len(frags))
	for i, f := range frags {
		forward[i] = add(f)
		node := g.nodes[forward[i]]
		node.Count++
		node.Sources = appendUnique(node.Sources, f.ID())
	}
	if cfg.reverse {
		for i, f := range frags {
			r := add(f.Reverse())
			g.nodes[forward[i]].Reverse = r
			g.nodes[r].Reverse = forward[i]
		}
		for _, node := range g.nodes {
			if node.Count == 0 {
				partner := g.nodes[node.Reverse]
				node.Count = partner.Count
				for _, s := range partner.Sources {
					node.Sources = appendUnique(node.Sources, s+"(rev_comp)")
				}
			}
		}
	}

	g.out = make([][]Edge, len(g.nodes))
	g.in = make([][]Edge, len(g.nodes))
	for _, a := range g.nodes {
		for _, b := range g.nodes {
			if j, ok := conn.Connect(a.Fragment, b.Fragment); ok {
				e := Edge{From: a.Index, To: b.Index, Junction: j}
				g.out[a.Index] = append(g.out[a.Index], e)
				g.in[b.Index] = append(g.in[b.Index], e)
			}
		}
	}
	return g, nil
}

func appendUnique(list []string, s string) []string {
	for _, x := range list {
		if x == s {
			return list
		}
	}
	return append(list, s)
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// Node returns node i.
func (g *Graph) Node(i int) *Node { return g.nodes[i] }

// Nodes returns the nodes in insertion order. Callers must not modify them.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Out returns the edges leaving node i in target order.
func (g *Graph) Out(i int) []Edge { return g.out[i] }

// In returns the edges entering node i.
func (g *Graph) In(i int) []Edge { return g.in[i] }

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, es := range g.out {
		n += len(es)
	}
	return n
}

// Edge returns the edge from a to b, if any.
func (g *Graph) Edge(a, b int) (Edge, bool) {
	for _, e := range g.out[a] {
		if e.To == b {
			return e, true
		}
	}
	return Edge{}, false
}
