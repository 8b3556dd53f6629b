package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// enzymesCmd is for listing out all the enzymes usable for digestion. Useful
// for if the user doesn't know which enzymes are available.
func (a *app) enzymesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enzymes",
		Short: "List the enzymes available for digestion",
		Long: `Lists the built-in enzymes, plus those of --rebase, by name along with their
recognition sequence and cut offsets.

	<Name>	<Site>(<top>/<bottom>)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.enzymes()
			if err != nil {
				return err
			}
			w, closeOut, err := a.output(cmd)
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				e, err := reg.Enzyme(name)
				if err != nil {
					_ = closeOut()
					return err
				}
				fmt.Fprintf(w, "%s\t%s(%d/%d)\n", e.Name, e.Site, e.TopCut, e.BottomCut)
			}
			return closeOut()
		},
	}
}
