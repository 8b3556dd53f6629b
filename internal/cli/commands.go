package cli

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dnamix/internal/assembly"
	"dnamix/internal/dna"
	"dnamix/internal/enzyme"
	"dnamix/internal/mix"
	"dnamix/internal/output"
	"dnamix/internal/repository"
)

const fromDBHelp = "treat arguments as IDs in the parts database instead of FASTA files"

// constructs reads every FASTA file in args, or looks args up in the parts
// database when fromDB is set.
func (a *app) constructs(ctx context.Context, args []string, fromDB bool) ([]*dna.Sequence, error) {
	if !fromDB {
		repo, err := repository.OpenFASTA(args...)
		if err != nil {
			return nil, err
		}
		return repository.All(ctx, repo)
	}
	store, err := repository.OpenStore(a.cfg.DB)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return repository.Resolve(ctx, store, args...)
}

func (a *app) enzyme(name string) (enzyme.Enzyme, error) {
	reg, err := a.enzymes()
	if err != nil {
		return enzyme.Enzyme{}, err
	}
	return reg.Enzyme(name)
}

func (a *app) mixOptions() []mix.Option {
	return []mix.Option{
		mix.WithLogger(a.logger),
		mix.WithMetrics(a.metrics),
		mix.WithBudget(a.cfg.Budget()),
	}
}

func (a *app) query() mix.Query {
	return mix.Query{
		MinParts: a.cfg.Search.MinParts,
		MaxParts: a.cfg.Search.MaxParts,
		Unique:   a.cfg.Search.Unique,
	}
}

// collect gathers the requested topologies. A search that runs out of budget
// is reported and its partial results kept.
func (a *app) collect(m *mix.Mix, topology string) ([]*assembly.Assembly, error) {
	var seqs []iter.Seq2[*assembly.Assembly, error]
	switch topology {
	case "circular":
		seqs = append(seqs, m.CircularAssemblies(a.query()))
	case "linear":
		seqs = append(seqs, m.LinearAssemblies(a.query()))
	case "all":
		seqs = append(seqs, m.CircularAssemblies(a.query()), m.LinearAssemblies(a.query()))
	default:
		return nil, fmt.Errorf("unknown topology %q (want circular, linear or all)", topology)
	}
	var all []*assembly.Assembly
	for _, seq := range seqs {
		found, err := assembly.Collect(seq)
		all = append(all, found...)
		if errors.Is(err, assembly.ErrSearchExceeded) {
			a.logger.Warn("reporting partial results", zap.Int("assemblies", len(found)))
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	return all, nil
}

func (a *app) write(cmd *cobra.Command, as []*assembly.Assembly) error {
	w, closeOut, err := a.output(cmd)
	if err != nil {
		return err
	}
	if err := output.Write(a.cfg.Format, w, as); err != nil {
		_ = closeOut()
		return err
	}
	a.logger.Info("assemblies written", zap.Int("count", len(as)), zap.String("format", a.cfg.Format))
	return closeOut()
}
