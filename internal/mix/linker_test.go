package mix

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnamix/internal/assembly"
	"dnamix/internal/dna"
)

// linker carries an adapter between two 5' overhangs.
func linker(id, left, adapter, right string) *dna.Sequence {
	return dna.MustNew(id, left+adapter+right, dna.Circular, dna.WithAdapter(len(left), len(left)+len(adapter)))
}

// Overhangs: TACT closes the ring, CGCT joins the two bridges.
func linkerTriples() []Triple {
	return []Triple{
		{
			Left:  linker("L1", "TACT", "GATTACAGATTACA", "AATG"),
			Parts: []*dna.Sequence{dna.MustNew("P1", part("AATG", "TTTTAAAACCCC", "GCTT"), dna.Circular)},
			Right: linker("L2", "GCTT", "CAGTCAGTCAGTCA", "CGCT"),
		},
		{
			Left:  linker("L3", "CGCT", "TTGCATTGCATTGC", "TGCC"),
			Parts: []*dna.Sequence{dna.MustNew("P2", part("TGCC", "GGGGAAAATTTT", "ACTA"), dna.Circular)},
			Right: linker("L4", "ACTA", "GTCCAGTCCAGTCC", "TACT"),
		},
	}
}

func TestBridges(t *testing.T) {
	frags, err := Bridges(context.Background(), linkerTriples(), bsaI, LinkerOptions{Workers: 2})
	require.NoError(t, err)
	require.Len(t, frags, 2)

	assert.Equal(t, "P1", frags[0].Source())
	assert.Equal(t, "TACT", frags[0].Left().TopStrand())
	assert.Equal(t, "CGCT", frags[0].Right().TopStrand())
	assert.Equal(t, "TACTGATTACAGATTACAAATGTTTTAAAACCCCGCTTCAGTCAGTCAGTCACGCT", frags[0].Sequence())
	assert.True(t, frags[0].HasLabel(dna.AdapterLabel))

	assert.Equal(t, "P2", frags[1].Source())
	assert.Equal(t, "CGCT", frags[1].Left().TopStrand())
	assert.Equal(t, "TACT", frags[1].Right().TopStrand())
}

func TestAssembleLinkers(t *testing.T) {
	as, err := AssembleLinkers(context.Background(), linkerTriples(), bsaI, LinkerOptions{})
	require.NoError(t, err)
	require.Len(t, as, 1)

	a := as[0]
	assert.True(t, a.Circular())
	assert.Equal(t, []string{"P1", "P2"}, a.Sources())
	assert.Equal(t, []string{"CGCT", "TACT"}, a.Junctions())
	assert.Equal(t, 104, a.Len())
	assert.Equal(t,
		"TACT"+"GATTACAGATTACA"+"AATG"+"TTTTAAAACCCC"+"GCTT"+"CAGTCAGTCAGTCA"+
			"CGCT"+"TTGCATTGCATTGC"+"TGCC"+"GGGGAAAATTTT"+"ACTA"+"GTCCAGTCCAGTCC",
		a.Product().Bases())
}

func TestAssembleLinkersAmbiguousPart(t *testing.T) {
	triples := linkerTriples()
	ambiguous := dna.MustNew("Pamb",
		part("AATG", "TTTTAAAACCCC", "GCTT")+part("AATG", "CCCCAAAATTTT", "GCTT"), dna.Linear)
	triples[0].Parts = []*dna.Sequence{ambiguous}

	_, err := AssembleLinkers(context.Background(), triples, bsaI, LinkerOptions{})
	var cerr *CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "L1", cerr.Left)
	assert.Equal(t, "Pamb", cerr.Part)
	assert.Equal(t, "L2", cerr.Right)
	assert.Equal(t, 2, cerr.Found)
	assert.Contains(t, err.Error(), "2 assemblies found")
}

func TestAssembleLinkersMissingPart(t *testing.T) {
	triples := linkerTriples()
	// overhangs that match neither linker
	triples[1].Parts = []*dna.Sequence{dna.MustNew("Pbad", part("GGAC", "GGGGAAAATTTT", "TTCA"), dna.Linear)}

	_, err := Bridges(context.Background(), triples, bsaI, LinkerOptions{})
	var cerr *CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Pbad", cerr.Part)
	assert.Zero(t, cerr.Found)
}

func TestBridgesSearchExceeded(t *testing.T) {
	_, err := Bridges(context.Background(), linkerTriples(), bsaI, LinkerOptions{Budget: assembly.Budget{MaxVisits: 1}})
	var cerr *CompositionError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, assembly.ErrSearchExceeded)
}

func TestBridgesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Bridges(ctx, linkerTriples(), bsaI, LinkerOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
