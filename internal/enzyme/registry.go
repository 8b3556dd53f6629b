package enzyme

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bebop/poly/io/rebase"
)

// Lookup resolves an enzyme name to its properties.
type Lookup interface {
	Enzyme(name string) (Enzyme, error)
}

// Registry is a name-indexed enzyme table. Lookups ignore case.
type Registry struct {
	byName map[string]Enzyme
}

// NewRegistry returns a registry holding enzymes.
func NewRegistry(enzymes ...Enzyme) *Registry {
	r := &Registry{byName: make(map[string]Enzyme, len(enzymes))}
	for _, e := range enzymes {
		r.Add(e)
	}
	return r
}

// Builtin returns the enzymes used by the common Golden Gate, MoClo and BASIC
// toolkits plus a few classic cutters.
func Builtin() *Registry {
	return NewRegistry(
		MustParse("BsaI", "GGTCTC(1/5)"),
		MustParse("BsmBI", "CGTCTC(1/5)"),
		MustParse("Esp3I", "CGTCTC(1/5)"),
		MustParse("BbsI", "GAAGAC(2/6)"),
		MustParse("BpiI", "GAAGAC(2/6)"),
		MustParse("SapI", "GCTCTTC(1/4)"),
		MustParse("BspQI", "GCTCTTC(1/4)"),
		MustParse("BtgZI", "GCGATG(10/14)"),
		MustParse("PaqCI", "CACCTGC(4/8)"),
		MustParse("AarI", "CACCTGC(4/8)"),
		MustParse("BsmAI", "GTCTC(1/5)"),
		MustParse("EcoRI", "G^AATTC"),
		MustParse("BamHI", "G^GATCC"),
		MustParse("XbaI", "T^CTAGA"),
		MustParse("SpeI", "A^CTAGT"),
		MustParse("PstI", "CTGCA^G"),
		MustParse("NotI", "GC^GGCCGC"),
	)
}

// Add registers e, replacing any enzyme of the same name.
func (r *Registry) Add(e Enzyme) {
	r.byName[strings.ToLower(e.Name)] = e
}

// Enzyme implements Lookup.
func (r *Registry) Enzyme(name string) (Enzyme, error) {
	e, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Enzyme{}, fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	return e, nil
}

// Names lists the registered enzymes alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for _, e := range r.byName {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered enzymes.
func (r *Registry) Len() int { return len(r.byName) }

// Merge returns a registry holding r's enzymes overridden by other's.
func (r *Registry) Merge(other *Registry) *Registry {
	out := NewRegistry()
	for _, e := range r.byName {
		out.Add(e)
	}
	for _, e := range other.byName {
		out.Add(e)
	}
	return out
}

// LoadRebase reads a REBASE data file. Entries whose recognition sequence
// cannot be expressed as a single fixed cut (unknown, multi-cut) are skipped
// and returned in skipped.
func LoadRebase(path string) (reg *Registry, skipped []string, err error) {
	enzymeMap, err := rebase.Read(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading REBASE file: %w", err)
	}
	reg = NewRegistry()
	for name, rebaseEnzyme := range enzymeMap {
		if rebaseEnzyme.Name != "" {
			name = rebaseEnzyme.Name
		}
		e, err := Parse(name, rebaseEnzyme.RecognitionSequence)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}
		reg.Add(e)
	}
	sort.Strings(skipped)
	return reg, skipped, nil
}
