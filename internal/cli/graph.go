package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"dnamix/internal/mix"
	"dnamix/internal/render"
)

// graphCmd prints the connection graph of a mix in Graphviz format.
func (a *app) graphCmd() *cobra.Command {
	var (
		fromDB bool
		method string
	)
	cmd := &cobra.Command{
		Use:   "graph [fasta] ... [fastaN]",
		Short: "Print the connection graph of a mix as DOT",
		Long: `Builds the mix --method would build (goldengate, gibson or basic) and writes
its fragments and junctions in Graphviz DOT format:

	dnamix graph parts.fasta | dot -Tsvg > mix.svg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			constructs, err := a.constructs(cmd.Context(), args, fromDB)
			if err != nil {
				return err
			}
			var m *mix.Mix
			switch method {
			case "gibson":
				m, err = mix.NewGibson(constructs, a.cfg.Homology.Min, a.cfg.Homology.Max, a.mixOptions()...)
			case "goldengate", "basic":
				e, lookupErr := a.enzyme(a.cfg.Enzyme)
				if lookupErr != nil {
					return lookupErr
				}
				if method == "basic" {
					m, err = mix.NewBASIC(constructs, e, a.mixOptions()...)
				} else {
					m, err = mix.NewGoldenGate(constructs, e, a.mixOptions()...)
				}
			default:
				return fmt.Errorf("unknown method %q (want goldengate, gibson or basic)", method)
			}
			if err != nil {
				return err
			}

			w, closeOut, err := a.output(cmd)
			if err != nil {
				return err
			}
			if err := render.DOT(w, m.Graph()); err != nil {
				_ = closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, fromDBHelp)
	cmd.Flags().StringVarP(&method, "method", "m", "goldengate", "goldengate, gibson or basic")
	return cmd
}
