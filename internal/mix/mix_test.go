package mix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"dnamix/internal/assembly"
	"dnamix/internal/digest"
	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/filter"
	"dnamix/internal/fragment"
	"dnamix/internal/graph"
	"dnamix/internal/metrics"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var bsaI = enzyme.MustParse("BsaI", "GGTCTC(1/5)")

// part flanks an insert with inward-facing BsaI sites leaving overhangs l and r.
func part(l, insert, r string) string {
	return "GGTCTC" + "A" + l + insert + r + "A" + "GAGACC"
}

func goldenGateParts(topology dna.Topology) []*dna.Sequence {
	return []*dna.Sequence{
		dna.MustNew("pA", part("AATG", "TTTTAAAACCCC", "GCTT"), topology),
		dna.MustNew("pB", part("GCTT", "GGGGAAAATTTT", "CGCT"), topology),
		dna.MustNew("pC", part("CGCT", "CCCCTTTTGGGG", "AATG"), topology),
	}
}

func TestGoldenGate(t *testing.T) {
	for _, topology := range []dna.Topology{dna.Linear, dna.Circular} {
		t.Run(topology.String(), func(t *testing.T) {
			m, err := NewGoldenGate(goldenGateParts(topology), bsaI)
			require.NoError(t, err)
			assert.Len(t, m.Fragments(), 3, "fragments holding a site are dropped")
			assert.Equal(t, 6, m.Graph().Len())
			assert.NotEmpty(t, m.ID())

			as, err := assembly.Collect(m.CircularAssemblies(Query{MinParts: 3}))
			require.NoError(t, err)
			require.Len(t, as, 1)
			assert.Equal(t, []string{"pA", "pB", "pC"}, as[0].Sources())
			assert.Equal(t, "AATGTTTTAAAACCCCGCTTGGGGAAAATTTTCGCTCCCCTTTTGGGG", as[0].Product().Bases())

			linear, err := assembly.Collect(m.LinearAssemblies(Query{MinParts: 3}))
			require.NoError(t, err)
			assert.Len(t, linear, 3)
		})
	}
}

func TestGoldenGateDuplicateConstruct(t *testing.T) {
	parts := goldenGateParts(dna.Linear)
	m, err := NewGoldenGate(append(parts, parts[0]), bsaI)
	require.NoError(t, err)
	assert.Len(t, m.Fragments(), 4)
	assert.Equal(t, 2, m.Graph().Node(0).Count)

	as, err := assembly.Collect(m.CircularAssemblies(Query{}))
	require.NoError(t, err)
	assert.Len(t, as, 1)
}

func TestGoldenGateNoCompatibleEnds(t *testing.T) {
	m, err := NewGoldenGate([]*dna.Sequence{
		dna.MustNew("x", part("AATG", "TTTTAAAACCCC", "GCTT"), dna.Linear),
		dna.MustNew("y", part("GACT", "GGGGAAAATTTT", "TGGT"), dna.Linear),
	}, bsaI)
	require.NoError(t, err)

	linear, err := assembly.Collect(m.LinearAssemblies(Query{MinParts: 2}))
	require.NoError(t, err)
	circular, err := assembly.Collect(m.CircularAssemblies(Query{}))
	require.NoError(t, err)
	assert.Empty(t, linear)
	assert.Empty(t, circular)
}

func TestQueryFragmentFilters(t *testing.T) {
	m, err := NewGoldenGate(goldenGateParts(dna.Linear), bsaI)
	require.NoError(t, err)
	noB := filter.Func("not pB", func(c filter.Candidate) bool { return c.(*fragment.Fragment).Source() != "pB" })

	as, err := assembly.Collect(m.CircularAssemblies(Query{FragmentFilters: filter.Chain{noB}}))
	require.NoError(t, err)
	assert.Empty(t, as)

	linear, err := assembly.Collect(m.LinearAssemblies(Query{MinParts: 2, FragmentFilters: filter.Chain{noB}}))
	require.NoError(t, err)
	require.Len(t, linear, 1)
	assert.Equal(t, []string{"pC", "pA"}, linear[0].Sources())
}

func TestQueryBudget(t *testing.T) {
	m, err := NewGoldenGate(goldenGateParts(dna.Linear), bsaI, WithBudget(assembly.Budget{MaxResults: 1}))
	require.NoError(t, err)
	as, err := assembly.Collect(m.LinearAssemblies(Query{MinParts: 3}))
	assert.ErrorIs(t, err, assembly.ErrSearchExceeded)
	assert.Len(t, as, 1)

	as, err = assembly.Collect(m.LinearAssemblies(Query{MinParts: 3, Budget: assembly.Budget{MaxResults: 10}}))
	require.NoError(t, err)
	assert.Len(t, as, 3)
}

const (
	h1 = "ATCGGCTAAGTC"
	h2 = "TTGACCGATGCA"
	h3 = "GCATTCAGGACT"
)

func TestGibson(t *testing.T) {
	rec := metrics.New()
	m, err := NewGibson([]*dna.Sequence{
		dna.MustNew("g1", h1+"AAAAAAAA"+h2, dna.Linear),
		dna.MustNew("g2", h2+"CCCCCCCC"+h3, dna.Linear),
		dna.MustNew("g3", h3+"GGGGGGGG"+h1, dna.Linear),
	}, 12, 12, WithMetrics(rec))
	require.NoError(t, err)

	as, err := assembly.Collect(m.CircularAssemblies(Query{}))
	require.NoError(t, err)
	require.Len(t, as, 1)
	assert.Equal(t, []string{"g1", "g2", "g3"}, as[0].Sources())
	assert.Equal(t, []string{h2, h3, h1}, as[0].Junctions())
	assert.Equal(t, h1+"AAAAAAAA"+h2+"CCCCCCCC"+h3+"GGGGGGGG", as[0].Product().Bases())
}

func TestGibsonRejectsCircularConstructs(t *testing.T) {
	_, err := NewGibson([]*dna.Sequence{dna.MustNew("g1", h1+"AAAAAAAA"+h2, dna.Circular)}, 0, 0)
	var derr *digest.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "g1", derr.Construct)
	assert.ErrorIs(t, err, digest.ErrCircularHomology)
}

func TestMixStateErrors(t *testing.T) {
	_, err := New(nil, WithEnzyme(bsaI))
	assert.ErrorIs(t, err, ErrNoInput)

	// the only site is too close to the end to cut, so the whole construct
	// keeps it and is dropped
	_, err = NewGoldenGate([]*dna.Sequence{dna.MustNew("s", "AAGGTCTCAAAA", dna.Linear)}, bsaI)
	assert.ErrorIs(t, err, graph.ErrEmpty)

	_, err = NewGoldenGate([]*dna.Sequence{dna.MustNew("n", "AAAACCCCGGGGTTTT", dna.Linear)}, bsaI, RequireSites())
	assert.ErrorIs(t, err, digest.ErrNoSite)

	_, err = New([]*dna.Sequence{dna.MustNew("n", "AAAA", dna.Linear)})
	assert.ErrorIs(t, err, digest.ErrNoEnzyme)
}

func TestComputeDigest(t *testing.T) {
	m, err := NewGoldenGate(goldenGateParts(dna.Linear), bsaI)
	require.NoError(t, err)
	frags, err := m.ComputeDigest(dna.MustNew("extra", part("AATG", "ACACACACACAC", "GCTT"), dna.Linear))
	require.NoError(t, err)
	require.Len(t, frags, 3)
	assert.Equal(t, "ACACACACACAC", frags[1].Body())
	assert.Len(t, m.Fragments(), 3, "the mix itself is unchanged")
}
