// Package render draws connection graphs for inspection. It only reads a
// finished graph.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"dnamix/internal/graph"
)

// DOT writes g in Graphviz format. Nodes are labeled with the fragment ID
// and the number of merged copies when above one; edges with their junction.
// Reverse-complement nodes are dashed.
func DOT(w io.Writer, g *graph.Graph) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph mix {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, "  node [shape=box, fontname=monospace];")
	for _, n := range g.Nodes() {
		label := n.Fragment.ID()
		if n.Count > 1 {
			label += fmt.Sprintf(" x%d", n.Count)
		}
		label += fmt.Sprintf("\\n%d bp", n.Fragment.Len())
		attrs := []string{"label=" + quote(label)}
		if n.Fragment.Reversed() {
			attrs = append(attrs, "style=dashed")
		}
		fmt.Fprintf(bw, "  n%d [%s];\n", n.Index, strings.Join(attrs, ", "))
	}
	for _, n := range g.Nodes() {
		for _, e := range g.Out(n.Index) {
			fmt.Fprintf(bw, "  n%d -> n%d [label=%s];\n", e.From, e.To, quote(e.Junction))
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

// quote escapes s as a DOT string; "\n" sequences already in s are kept.
func quote(s string) string {
	q := strconv.Quote(s)
	return strings.ReplaceAll(q, `\\n`, `\n`)
}
