package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dnamix/internal/assembly"
	"dnamix/internal/mix"
	"dnamix/internal/plan"
)

// basicCmd runs a BASIC linker assembly described by a plan file.
func (a *app) basicCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "basic [plan.yaml]",
		Short: "Simulate a BASIC linker assembly from a plan",
		Long: `Each triple of the plan (left linker, parts, right linker) is ligated in a
mix of its own and must give exactly one bridging fragment. The bridges are
then ligated into circular constructs.

The plan enzyme overrides --enzyme.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			if p.Enzyme == "" {
				p.Enzyme = a.cfg.Enzyme
			}
			repo, err := p.Repository()
			if err != nil {
				return err
			}
			reg, err := a.enzymes()
			if err != nil {
				return err
			}
			triples, e, err := p.Resolve(ctx, repo, reg)
			if err != nil {
				return err
			}
			a.logger.Info("running plan",
				zap.String("plan", p.Name),
				zap.String("enzyme", e.Name),
				zap.Int("triples", len(triples)))

			as, err := mix.AssembleLinkers(ctx, triples, e, mix.LinkerOptions{
				Workers: a.cfg.Workers,
				Query:   a.query(),
				Budget:  a.cfg.Budget(),
				Logger:  a.logger,
				Metrics: a.metrics,
			})
			if errors.Is(err, assembly.ErrSearchExceeded) && len(as) > 0 {
				a.logger.Warn("reporting partial results", zap.Int("assemblies", len(as)))
				err = nil
			}
			if err != nil {
				return err
			}
			return a.write(cmd, as)
		},
	}
}
