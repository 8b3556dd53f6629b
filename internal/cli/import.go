package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dnamix/internal/dna"
	"dnamix/internal/repository"
)

// importCmd loads FASTA files into the parts database.
func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [fasta] ... [fastaN]",
		Short: "Import constructs into the parts database",
		Long: `Stores every record of the given FASTA files in the parts database (--db),
replacing records with the same ID. Stored parts can be used by other
commands through --from-db.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var seqs []*dna.Sequence
			for _, path := range args {
				read, err := repository.ReadFASTA(path)
				if err != nil {
					return err
				}
				seqs = append(seqs, read...)
			}
			store, err := repository.OpenStore(a.cfg.DB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()
			if err := store.Import(cmd.Context(), seqs); err != nil {
				return err
			}
			a.logger.Info("imported parts", zap.Int("count", len(seqs)), zap.String("db", store.Path()))
			return nil
		},
	}
}
