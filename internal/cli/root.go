// Package cli is for command line interactions with dnamix.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"dnamix/internal/config"
	"dnamix/internal/enzyme"
	"dnamix/internal/logging"
	"dnamix/internal/metrics"
)

// app carries what every subcommand needs once PersistentPreRunE has run.
type app struct {
	v        *viper.Viper
	settings string
	verbose  bool
	out      string

	cfg     config.Config
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// NewRootCommand returns the dnamix command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New(), logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "dnamix",
		Short: "Simulate Golden Gate, Gibson and BASIC DNA assembly",
		Long: `dnamix digests constructs, connects the fragments through compatible
sticky ends or terminal homology and enumerates the linear and circular
molecules the mix can ligate into.

Settings come from --settings, DNAMIX_* environment variables and flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.finish()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.settings, "settings", "", "YAML settings file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")
	pf.StringVarP(&a.out, "out", "o", "", "output file name (default stdout)")
	pf.StringP("enzyme", "e", "", "enzyme name, comma separated for digest ('dnamix enzymes' lists them)")
	pf.String("rebase", "", "REBASE file with additional enzymes")
	pf.StringP("format", "f", "", "output format: fasta or json")
	pf.String("metrics-file", "", "write prometheus metrics to this textfile when done")
	pf.String("db", "", "path to the parts database")
	pf.Int("min-parts", 0, "fewest fragments in an assembly")
	pf.Int("max-parts", 0, "most fragments in an assembly (0 is unbounded)")
	pf.Int("max-results", 0, "stop after this many assemblies (0 is unbounded)")
	pf.Int("max-depth", 0, "prune paths longer than this (0 is unbounded)")
	pf.Int("max-visits", 0, "stop after this many search steps")
	pf.Bool("unique", false, "report each product molecule once")
	pf.Int("workers", 0, "parallel mixes in BASIC assembly (0 is GOMAXPROCS)")

	a.bind(pf, map[string]string{
		"enzyme":       "enzyme",
		"rebase":       "rebase",
		"format":       "format",
		"metrics-file": "metrics-file",
		"db":           "db",
		"min-parts":    "search.min-parts",
		"max-parts":    "search.max-parts",
		"max-results":  "search.max-results",
		"max-depth":    "search.max-depth",
		"max-visits":   "search.max-visits",
		"unique":       "search.unique",
		"workers":      "workers",
	})

	root.AddCommand(
		a.digestCmd(),
		a.ligateCmd(),
		a.gibsonCmd(),
		a.basicCmd(),
		a.graphCmd(),
		a.enzymesCmd(),
		a.importCmd(),
	)
	return root
}

// bind maps flags onto config keys; a flag only overrides when it is set.
func (a *app) bind(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		_ = a.v.BindPFlag(key, fs.Lookup(flag))
	}
}

func (a *app) setup() error {
	cfg, err := config.Load(a.v, a.settings)
	if err != nil {
		return err
	}
	a.cfg = cfg
	logger, err := logging.New(cfg.Log, a.verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	if cfg.MetricsFile != "" {
		a.metrics = metrics.New()
	}
	return nil
}

func (a *app) finish() error {
	defer func() { _ = a.logger.Sync() }()
	if a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.logger.Debug("metrics written", zap.String("path", a.cfg.MetricsFile))
	return nil
}

// output opens the --out file, or returns the command's stdout.
func (a *app) output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if a.out == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(a.out)
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, f.Close, nil
}

// enzymes returns the built-in table, extended by the REBASE file if set.
func (a *app) enzymes() (*enzyme.Registry, error) {
	reg := enzyme.Builtin()
	if a.cfg.Rebase == "" {
		return reg, nil
	}
	extra, skipped, err := enzyme.LoadRebase(a.cfg.Rebase)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("rebase loaded",
		zap.String("path", a.cfg.Rebase),
		zap.Int("enzymes", extra.Len()),
		zap.Int("skipped", len(skipped)))
	return reg.Merge(extra), nil
}

// Execute runs the command tree against os.Args and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dnamix:", err)
		return 1
	}
	return 0
}
