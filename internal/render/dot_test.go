package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnamix/internal/dna"
	"dnamix/internal/fragment"
	"dnamix/internal/graph"
)

func end(seq string, strand int) fragment.StickyEnd {
	return fragment.StickyEnd{Seq: seq, Strand: strand}
}

func ring() []*fragment.Fragment {
	return []*fragment.Fragment{
		fragment.New("a", "TTTTAAAACCCC", end("AATG", 1), end(dna.ReverseComplement("GCTT"), -1)),
		fragment.New("b", "GGGGAAAATTTT", end("GCTT", 1), end(dna.ReverseComplement("CGCT"), -1)),
		fragment.New("c", "CCCCTTTTGGGG", end("CGCT", 1), end(dna.ReverseComplement("AATG"), -1)),
	}
}

func TestDOT(t *testing.T) {
	frags := append(ring(), ring()[0])
	g, err := graph.Build(frags, graph.Sticky{}, graph.WithReverse(false))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DOT(&buf, g))
	want := `digraph mix {
  rankdir=LR;
  node [shape=box, fontname=monospace];
  n0 [label="a x2\n20 bp"];
  n1 [label="b\n20 bp"];
  n2 [label="c\n20 bp"];
  n0 -> n1 [label="GCTT"];
  n1 -> n2 [label="CGCT"];
  n2 -> n0 [label="AATG"];
}
`
	assert.Equal(t, want, buf.String())
}

func TestDOTReverse(t *testing.T) {
	g, err := graph.Build(ring(), graph.Sticky{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, DOT(&buf, g))
	assert.Contains(t, buf.String(), `n3 [label="a(rev_comp)\n20 bp", style=dashed];`)
	assert.Contains(t, buf.String(), `n5 -> n4 [label="AGCG"];`)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"say \"hi\"\n"`, quote(`say "hi"\n`))
}
