package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnamix/internal/digest"
	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/fragment"
)

var bsaI = enzyme.MustParse("BsaI", "GGTCTC(1/5)")

func TestNoRestrictionSite(t *testing.T) {
	f := NoRestrictionSite(bsaI)
	clean := fragment.New("ok", "TTTTAAAACCCC", fragment.StickyEnd{Seq: "AATG", Strand: 1}, fragment.StickyEnd{Seq: "AAGC", Strand: -1})
	stray := fragment.New("stray", "TTTGGTCTCTTT", fragment.StickyEnd{Seq: "AATG", Strand: 1}, fragment.StickyEnd{Seq: "AAGC", Strand: -1})
	reverse := fragment.New("reverse", "TTTGAGACCTTT", fragment.StickyEnd{}, fragment.StickyEnd{})

	assert.True(t, f.Accepts(clean))
	assert.False(t, f.Accepts(stray))
	assert.False(t, f.Accepts(reverse))
}

func TestNoRestrictionSiteAfterDigestion(t *testing.T) {
	// the trailing site sits too close to the end to be cut, so the last
	// fragment keeps a stray copy of it
	bases := "GGTCTC" + "A" + "AATG" + "TTTTAAAACCCC" + "GCTT" + "A" + "GAGACC" + "TT" + "GGTCTCA"
	d, err := digest.New(digest.WithEnzyme(bsaI))
	require.NoError(t, err)
	frags, err := d.Digest(dna.MustNew("p", bases, dna.Linear))
	require.NoError(t, err)
	require.Len(t, frags, 3)
	require.Contains(t, frags[2].Sequence(), "GGTCTC")

	chain := Chain{NoRestrictionSite(bsaI)}
	var kept []*fragment.Fragment
	for _, f := range frags {
		if chain.Accepts(f) {
			kept = append(kept, f)
		}
	}
	require.Len(t, kept, 1)
	assert.Equal(t, "TTTTAAAACCCC", kept[0].Body())
	for _, f := range kept {
		assert.NotContains(t, f.Sequence(), "GGTCTC")
	}
}

func TestChain(t *testing.T) {
	seq := dna.MustNew("s", "ACGTACGT", dna.Linear)
	reject := Func("reject", func(Candidate) bool { return false })
	calls := 0
	count := Func("count", func(Candidate) bool { calls++; return true })

	assert.True(t, Chain{}.Accepts(seq))
	f, ok := Chain{count, reject, count}.Rejecting(seq)
	assert.False(t, ok)
	assert.Equal(t, "reject", f.Name())
	assert.Equal(t, 1, calls, "evaluation stops at the first refusal")
	assert.Equal(t, []string{"count", "reject"}, Chain{count, reject}.Names())

	assert.True(t, Any(reject, count).Accepts(seq))
	assert.False(t, Any(reject).Accepts(seq))
	assert.True(t, Not(reject).Accepts(seq))
}

func TestTextSearch(t *testing.T) {
	seq := dna.MustNew("s", "ACGTACGTACGT", dna.Linear, dna.WithSpans(
		dna.Span{Start: 0, End: 4, Label: "adapter"},
		dna.Span{Start: 4, End: 8, Label: "adapter-2"},
		dna.Span{Start: 8, End: 12, Label: "cds"},
	))
	tests := []struct {
		filter TextSearch
		want   bool
	}{
		{TextSearch{Text: "adapter"}, true},
		{TextSearch{Text: "adapter", Once: true}, false},
		{TextSearch{Text: "adapter", Exact: true, Once: true}, true},
		{TextSearch{Text: "cd"}, true},
		{TextSearch{Text: "cd", Exact: true}, false},
		{TextSearch{Text: "promoter"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.filter.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Accepts(seq))
		})
	}
}

func TestMiscFilters(t *testing.T) {
	seq := dna.MustNew("s", "GAATTCAAAA", dna.Linear, dna.WithAdapter(0, 4))
	assert.False(t, NoPattern("GAATTC").Accepts(seq))
	assert.True(t, NoPattern("GGNCC").Accepts(seq))
	assert.True(t, HasLabel("adapter").Accepts(seq))
	assert.False(t, HasLabel("adapt").Accepts(seq))
	assert.True(t, Length{Min: 5}.Accepts(seq))
	assert.False(t, Length{Max: 5}.Accepts(seq))
}
