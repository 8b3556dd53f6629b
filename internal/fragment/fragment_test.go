package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnamix/internal/dna"
)

func TestCompatibleIsSymmetric(t *testing.T) {
	seqs := []string{"", "AATG", "CATT", "GCTT", "AAGC", "GAATTC", "AAT"}
	var ends []StickyEnd
	for _, s := range seqs {
		for _, strand := range []int{-1, 0, 1} {
			ends = append(ends, StickyEnd{Seq: s, Strand: strand})
		}
	}
	for _, a := range ends {
		for _, b := range ends {
			if a.Compatible(b) != b.Compatible(a) {
				t.Errorf("Compatible(%v,%v) = %v but Compatible(%v,%v) = %v", a, b, a.Compatible(b), b, a, b.Compatible(a))
			}
		}
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		name string
		a, b StickyEnd
		want bool
	}{
		{"complementary opposite strands", StickyEnd{"AATG", 1}, StickyEnd{"CATT", -1}, true},
		{"same strand", StickyEnd{"AATG", 1}, StickyEnd{"CATT", 1}, false},
		{"not complementary", StickyEnd{"AATG", 1}, StickyEnd{"AATG", -1}, false},
		{"blunt ends never join", StickyEnd{}, StickyEnd{}, false},
		{"palindrome pairs with itself", StickyEnd{"AATT", 1}, StickyEnd{"AATT", -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Compatible(tt.b))
		})
	}
}

func TestReverse(t *testing.T) {
	f := New("p1", "CCCGGG", StickyEnd{"AATG", 1}, StickyEnd{"AAGC", -1},
		WithSpans(dna.Span{Start: 4, End: 7, Strand: 1, Label: "cds"}))
	require.Equal(t, "AATGCCCGGGGCTT", f.Sequence())
	require.Equal(t, 14, f.Len())

	rc := f.Reverse()
	assert.Equal(t, dna.ReverseComplement(f.Sequence()), rc.Sequence())
	assert.Equal(t, StickyEnd{"AAGC", 1}, rc.Left())
	assert.Equal(t, StickyEnd{"AATG", -1}, rc.Right())
	assert.True(t, rc.Reversed())
	assert.Equal(t, "p1(rev_comp)", rc.ID())
	assert.Equal(t, []dna.Span{{Start: 7, End: 10, Strand: -1, Label: "cds"}}, rc.Labels())
	assert.Equal(t, f.Key(), rc.Reverse().Key())
}

func TestJunction(t *testing.T) {
	a := New("a", "TTTT", StickyEnd{}, StickyEnd{"CATT", -1})
	b := New("b", "GGGG", StickyEnd{"AATG", 1}, StickyEnd{})
	c := New("c", "GGGG", StickyEnd{"AATGA", 1}, StickyEnd{})

	j, err := Junction(a, b)
	require.NoError(t, err)
	assert.Equal(t, "AATG", j)
	assert.True(t, a.ClipsWith(b))
	assert.False(t, b.ClipsWith(a))

	_, err = Junction(a, c)
	assert.ErrorIs(t, err, ErrOverhangMismatch)
	_, err = Junction(b, a)
	assert.ErrorIs(t, err, ErrIncompatible)
}
