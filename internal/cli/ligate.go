package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dnamix/internal/mix"
)

// ligateCmd is for Golden Gate assembly: cut with a Type IIS enzyme and
// ligate through the overhangs.
func (a *app) ligateCmd() *cobra.Command {
	var (
		fromDB   bool
		topology string
	)
	cmd := &cobra.Command{
		Use:   "ligate [fasta] ... [fastaN]",
		Short: "Simulate a Golden Gate assembly",
		Long: `Cuts every construct with --enzyme, drops fragments that still carry a site
and writes the assemblies the remaining fragments ligate into.

Headers containing "(circular)" mark circular constructs.`,
		Aliases: []string{"goldengate", "clone"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			constructs, err := a.constructs(cmd.Context(), args, fromDB)
			if err != nil {
				return err
			}
			e, err := a.enzyme(a.cfg.Enzyme)
			if err != nil {
				return err
			}
			m, err := mix.NewGoldenGate(constructs, e, a.mixOptions()...)
			if err != nil {
				return err
			}
			as, err := a.collect(m, topology)
			if err != nil {
				return err
			}
			return a.write(cmd, as)
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, fromDBHelp)
	cmd.Flags().StringVarP(&topology, "topology", "t", "circular", "circular, linear or all")
	return cmd
}

// gibsonCmd is for homology assembly of linear fragments.
func (a *app) gibsonCmd() *cobra.Command {
	var (
		fromDB   bool
		topology string
	)
	cmd := &cobra.Command{
		Use:   "gibson [fasta] ... [fastaN]",
		Short: "Simulate a Gibson assembly",
		Long: `Joins linear fragments whose ends share homologous overlaps, the longest
overlap between --min-overlap and --max-overlap winning, reverse complements
included.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			constructs, err := a.constructs(cmd.Context(), args, fromDB)
			if err != nil {
				return err
			}
			a.logger.Debug("gibson overlaps",
				zap.Int("min", a.cfg.Homology.Min),
				zap.Int("max", a.cfg.Homology.Max))
			m, err := mix.NewGibson(constructs, a.cfg.Homology.Min, a.cfg.Homology.Max, a.mixOptions()...)
			if err != nil {
				return err
			}
			as, err := a.collect(m, topology)
			if err != nil {
				return err
			}
			return a.write(cmd, as)
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, fromDBHelp)
	cmd.Flags().StringVarP(&topology, "topology", "t", "all", "circular, linear or all")
	cmd.Flags().Int("min-overlap", 0, "shortest overlap joining two fragments")
	cmd.Flags().Int("max-overlap", 0, "longest overlap considered (0 is unbounded)")
	a.bind(cmd.Flags(), map[string]string{
		"min-overlap": "homology.min",
		"max-overlap": "homology.max",
	})
	return cmd
}
