package output

import (
	"encoding/json"
	"io"

	"dnamix/internal/assembly"
	"dnamix/internal/dna"
)

// Report describes one assembly product. We use snake_case to line up with
// the python tooling reading these reports.
type Report struct {
	Index     int        `json:"index"`
	ID        string     `json:"id"`
	Topology  string     `json:"topology"`
	Length    int        `json:"length"`
	GCContent float64    `json:"gc_content"`
	Fragments []string   `json:"fragments"`
	Junctions []string   `json:"junctions"`
	Features  []dna.Span `json:"features,omitempty"`
	ORFs      []ORF      `json:"orfs,omitempty"`
	Sequence  string     `json:"sequence"`
}

// NewReport summarizes a; index is 1-based.
func NewReport(index int, a *assembly.Assembly) Report {
	p := a.Product()
	return Report{
		Index:     index,
		ID:        a.ID(),
		Topology:  p.Topology().String(),
		Length:    a.Len(),
		GCContent: GC(p.Bases()),
		Fragments: a.Sources(),
		Junctions: a.Junctions(),
		Features:  p.Labels(),
		Sequence:  p.Bases(),
	}
}

// WriteJSON writes every assembly, duplicates included, as an indented JSON
// array of reports listing the ORFs of at least MinORFLength bases.
func WriteJSON(w io.Writer, as []*assembly.Assembly) error {
	reports := make([]Report, len(as))
	for i, a := range as {
		r := NewReport(i+1, a)
		orfs, err := FindORFs(r.Sequence, a.Product().Circular(), MinORFLength)
		if err != nil {
			return err
		}
		r.ORFs = orfs
		reports[i] = r
	}
	out, err := json.MarshalIndent(reports, "", " ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}
