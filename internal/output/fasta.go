package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dnamix/internal/assembly"
	"dnamix/internal/fragment"
)

// LineLength is the FASTA line width.
const LineLength = 80

// WriteFASTA writes one record per distinct product:
//
//	>Assembly_1 | Fragments: a -> b -> c | GC 41.7% | (circular)
//
// Products whose seqhash was already written are skipped; numbering keeps
// the position in as.
func WriteFASTA(w io.Writer, as []*assembly.Assembly) error {
	bw := bufio.NewWriter(w)
	seen := make(map[string]bool, len(as))
	for i, a := range as {
		// Avoid printing duplicate sequences
		if seen[a.ID()] {
			continue
		}
		seen[a.ID()] = true

		topology := "linear"
		if a.Circular() {
			topology = "circular"
		}
		bases := a.Product().Bases()
		fmt.Fprintf(bw, ">Assembly_%d | Fragments: %s | GC %.1f%% | (%s)\n%s\n",
			i+1, strings.Join(a.Sources(), " -> "), GC(bases), topology, formatSequence(bases, LineLength))
	}
	return bw.Flush()
}

// WriteFragments writes digestion fragments as ">Fragment_N source" records.
func WriteFragments(w io.Writer, frags []*fragment.Fragment) error {
	bw := bufio.NewWriter(w)
	for i, f := range frags {
		fmt.Fprintf(bw, ">Fragment_%d %s | %s .. %s\n%s", i+1, f.ID(), f.Left(), f.Right(), formatSequence(f.Sequence(), LineLength))
	}
	return bw.Flush()
}

func formatSequence(sequence string, lineLength int) string {
	var builder strings.Builder
	for i := 0; i < len(sequence); i += lineLength {
		end := min(i+lineLength, len(sequence))
		builder.WriteString(sequence[i:end] + "\n")
	}
	return builder.String()
}
