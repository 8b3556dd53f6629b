// Package plan reads BASIC assembly plans: which linkers flank which parts,
// where their sequences come from and which enzyme cuts them.
//
//	name: promoter-swap
//	enzyme: BsaI
//	sources: [linkers.fasta, parts.fasta]
//	sequences:
//	  - id: L1
//	    bases: TACTGATTACAGATTACAAATG
//	    adapter: [4, 18]
//	triples:
//	  - {left: L1, parts: [P1], right: L2}
package plan

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/mix"
	"dnamix/internal/repository"
)

var ErrInvalid = errors.New("plan: invalid")

// Plan is a BASIC assembly plan.
type Plan struct {
	Name      string   `yaml:"name"`
	Enzyme    string   `yaml:"enzyme"`
	Sources   []string `yaml:"sources"`
	Sequences []Record `yaml:"sequences"`
	Triples   []Triple `yaml:"triples"`

	dir string
}

// Record is a sequence written inline in the plan.
type Record struct {
	ID       string `yaml:"id"`
	Bases    string `yaml:"bases"`
	Topology string `yaml:"topology"`
	// Adapter holds the start and end of the adapter region.
	Adapter []int `yaml:"adapter,flow"`
}

// Triple names one or more parts and the linkers flanking them.
type Triple struct {
	Left  string   `yaml:"left"`
	Parts []string `yaml:"parts"`
	Right string   `yaml:"right"`
}

// Load reads the plan at path. Relative sources are resolved against the
// plan's directory.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes and validates a plan; dir anchors relative sources.
func Parse(data []byte, dir string) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	p.dir = dir
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Plan) Validate() error {
	if len(p.Triples) == 0 {
		return fmt.Errorf("%w: no triples", ErrInvalid)
	}
	for i, t := range p.Triples {
		if t.Left == "" || t.Right == "" || len(t.Parts) == 0 {
			return fmt.Errorf("%w: triple %d needs left, right and at least one part", ErrInvalid, i+1)
		}
	}
	for _, r := range p.Sequences {
		if r.ID == "" {
			return fmt.Errorf("%w: inline sequence without id", ErrInvalid)
		}
		if len(r.Adapter) != 0 && len(r.Adapter) != 2 {
			return fmt.Errorf("%w: adapter of %s must be [start, end]", ErrInvalid, r.ID)
		}
	}
	return nil
}

// Repository loads the plan's FASTA sources and inline sequences.
func (p *Plan) Repository() (*repository.Memory, error) {
	paths := make([]string, len(p.Sources))
	for i, src := range p.Sources {
		if !filepath.IsAbs(src) && p.dir != "" {
			src = filepath.Join(p.dir, src)
		}
		paths[i] = src
	}
	repo, err := repository.OpenFASTA(paths...)
	if err != nil {
		return nil, err
	}
	for _, r := range p.Sequences {
		topology, err := dna.ParseTopology(r.Topology)
		if err != nil {
			return nil, err
		}
		var opts []dna.Option
		if len(r.Adapter) == 2 {
			opts = append(opts, dna.WithAdapter(r.Adapter[0], r.Adapter[1]))
		}
		s, err := dna.New(r.ID, r.Bases, topology, opts...)
		if err != nil {
			return nil, err
		}
		if err := repo.Put(context.Background(), s); err != nil {
			return nil, err
		}
	}
	return repo, nil
}

// Resolve looks up the plan's enzyme and every sequence its triples name.
// An empty enzyme name means BsaI.
func (p *Plan) Resolve(ctx context.Context, repo repository.Repository, enzymes enzyme.Lookup) ([]mix.Triple, enzyme.Enzyme, error) {
	name := p.Enzyme
	if name == "" {
		name = "BsaI"
	}
	e, err := enzymes.Enzyme(name)
	if err != nil {
		return nil, enzyme.Enzyme{}, err
	}

	triples := make([]mix.Triple, 0, len(p.Triples))
	for _, t := range p.Triples {
		ends, err := repository.Resolve(ctx, repo, t.Left, t.Right)
		if err != nil {
			return nil, enzyme.Enzyme{}, err
		}
		parts, err := repository.Resolve(ctx, repo, t.Parts...)
		if err != nil {
			return nil, enzyme.Enzyme{}, err
		}
		triples = append(triples, mix.Triple{Left: ends[0], Parts: parts, Right: ends[1]})
	}
	return triples, e, nil
}
