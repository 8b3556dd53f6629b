package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"dnamix/internal/digest"
	"dnamix/internal/fragment"
	"dnamix/internal/output"
)

// digestCmd cuts constructs without ligating them.
func (a *app) digestCmd() *cobra.Command {
	var fromDB bool
	cmd := &cobra.Command{
		Use:   "digest [fasta] ... [fastaN]",
		Short: "Cut constructs and list the fragments",
		Long: `Cuts every construct with each enzyme given to --enzyme (comma separated),
in the order given, and writes the fragments as FASTA with their sticky ends.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := a.constructs(cmd.Context(), args, fromDB)
			if err != nil {
				return err
			}

			// We assume the order of the enzymes matches what was given.
			var frags []*fragment.Fragment
			for _, name := range strings.Split(a.cfg.Enzyme, ",") {
				e, err := a.enzyme(name)
				if err != nil {
					return err
				}
				d, err := digest.New(digest.WithEnzyme(e), digest.WithLogger(a.logger))
				if err != nil {
					return err
				}
				for _, part := range parts {
					cut, err := d.Digest(part)
					if err != nil {
						return err
					}
					a.metrics.Digested(d.Mode().String(), len(cut))
					frags = append(frags, cut...)
				}
			}

			w, closeOut, err := a.output(cmd)
			if err != nil {
				return err
			}
			if err := output.WriteFragments(w, frags); err != nil {
				_ = closeOut()
				return err
			}
			return closeOut()
		},
	}
	cmd.Flags().BoolVar(&fromDB, "from-db", false, fromDBHelp)
	return cmd
}
