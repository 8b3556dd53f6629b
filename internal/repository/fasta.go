package repository

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/bebop/poly/io/fasta"

	"dnamix/internal/dna"
)

var (
	circularTag = regexp.MustCompile(`(?i)\s*\((linear|circular)\)\s*`)
	adapterTag  = regexp.MustCompile(`\badapter=(\d+)\.\.(\d+)\b`)
)

// ReadFASTA reads constructs from a FASTA file. The first word of a header is
// the ID; "(circular)" anywhere in the header makes the construct circular and
// "adapter=S..E" marks the adapter region [S, E). Repeated IDs get a numeric
// suffix.
func ReadFASTA(path string) ([]*dna.Sequence, error) {
	entries, err := fasta.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FASTA file: %w", err)
	}

	// we depend on names being unique
	names := make(map[string]bool)

	seqs := make([]*dna.Sequence, 0, len(entries))
	for _, entry := range entries {
		id, topology, opts, err := parseHeader(entry.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		base := id
		for i := 1; names[id]; i++ {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		names[id] = true

		s, err := dna.New(id, entry.Sequence, topology, opts...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		seqs = append(seqs, s)
	}
	return seqs, nil
}

// OpenFASTA loads every file into a Memory repository.
func OpenFASTA(paths ...string) (*Memory, error) {
	var all []*dna.Sequence
	for _, p := range paths {
		seqs, err := ReadFASTA(p)
		if err != nil {
			return nil, err
		}
		all = append(all, seqs...)
	}
	return NewMemory(all...), nil
}

func parseHeader(header string) (string, dna.Topology, []dna.Option, error) {
	topology := dna.Linear
	if m := circularTag.FindStringSubmatch(header); m != nil && strings.EqualFold(m[1], "circular") {
		topology = dna.Circular
	}
	header = circularTag.ReplaceAllString(header, " ")

	var opts []dna.Option
	if m := adapterTag.FindStringSubmatch(header); m != nil {
		start, err := strconv.Atoi(m[1])
		if err != nil {
			return "", topology, nil, fmt.Errorf("%w: adapter start: %w", ErrHeader, err)
		}
		end, err := strconv.Atoi(m[2])
		if err != nil {
			return "", topology, nil, fmt.Errorf("%w: adapter end: %w", ErrHeader, err)
		}
		opts = append(opts, dna.WithAdapter(start, end))
		header = adapterTag.ReplaceAllString(header, " ")
	}

	fields := strings.Fields(header)
	if len(fields) == 0 {
		return "", topology, nil, ErrHeader
	}
	return fields[0], topology, opts, nil
}
