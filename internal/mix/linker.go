package mix

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dnamix/internal/assembly"
	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/filter"
	"dnamix/internal/fragment"
	"dnamix/internal/metrics"
)

// Triple flanks one or more parts with a left and a right linker. Each part
// forms its own bridging fragment.
type Triple struct {
	Left  *dna.Sequence
	Parts []*dna.Sequence
	Right *dna.Sequence
}

// CompositionError reports a (linker, part, linker) triple that did not give
// exactly one bridging fragment.
type CompositionError struct {
	Left, Part, Right string
	Found             int
	// Err is set when the triple could not be enumerated at all.
	Err error
}

func (e *CompositionError) Error() string {
	names := strings.Join([]string{e.Left, e.Part, e.Right}, ", ")
	if e.Err != nil {
		return fmt.Sprintf("assembling [%s]: %v", names, e.Err)
	}
	return fmt.Sprintf("assembling [%s]: %d assemblies found, want 1", names, e.Found)
}

func (e *CompositionError) Unwrap() error { return e.Err }

// LinkerOptions configure AssembleLinkers.
type LinkerOptions struct {
	// Workers bounds the phase-one mixes run at once; zero means GOMAXPROCS.
	Workers int
	// Query selects the final circular assemblies.
	Query   Query
	Budget  assembly.Budget
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

func (o LinkerOptions) mixOptions() []Option {
	logger := o.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return []Option{WithLogger(logger), WithMetrics(o.Metrics), WithBudget(o.Budget)}
}

type bridgeJob struct {
	left, part, right *dna.Sequence
}

// Bridges runs phase one of a linker assembly: every part is ligated to its
// linkers in a mix of its own, which must yield exactly one linear assembly
// carrying an adapter. The results come back in triple order.
func Bridges(ctx context.Context, triples []Triple, e enzyme.Enzyme, opts LinkerOptions) ([]*fragment.Fragment, error) {
	var jobs []bridgeJob
	for _, t := range triples {
		left, right := t.Left.WithTopology(dna.Linear), t.Right.WithTopology(dna.Linear)
		for _, p := range t.Parts {
			jobs = append(jobs, bridgeJob{left: left, part: p, right: right})
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]*fragment.Fragment, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := bridge(job, e, opts)
			if err != nil {
				return err
			}
			out[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func bridge(job bridgeJob, e enzyme.Enzyme, opts LinkerOptions) (*fragment.Fragment, error) {
	fail := func(found int, err error) error {
		return &CompositionError{
			Left:  job.left.ID(),
			Part:  job.part.ID(),
			Right: job.right.ID(),
			Found: found,
			Err:   err,
		}
	}

	m, err := NewBASIC([]*dna.Sequence{job.left, job.part, job.right}, e, opts.mixOptions()...)
	if err != nil {
		return nil, fail(0, err)
	}
	found, err := assembly.Collect(m.LinearAssemblies(Query{
		MinParts: 3,
		Filters:  filter.Chain{filter.TextSearch{Text: dna.AdapterLabel}},
	}))
	if err != nil {
		return nil, fail(len(found), err)
	}
	if len(found) != 1 {
		return nil, fail(len(found), nil)
	}
	return found[0].AsFragment(job.part.ID())
}

// AssembleLinkers runs both phases of a linker assembly: Bridges, then a
// circular enumeration over the bridging fragments and their reverse
// complements. A search-exceeded error comes back with the partial results.
func AssembleLinkers(ctx context.Context, triples []Triple, e enzyme.Enzyme, opts LinkerOptions) ([]*assembly.Assembly, error) {
	frags, err := Bridges(ctx, triples, e, opts)
	if err != nil {
		return nil, err
	}
	final, err := NewBASIC(nil, e, append(opts.mixOptions(), WithFragments(frags...))...)
	if err != nil {
		return nil, err
	}
	return assembly.Collect(final.CircularAssemblies(opts.Query))
}
