// Package config is for app wide settings that are unmarshalled from Viper:
// defaults, an optional YAML settings file, DNAMIX_* environment variables
// and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"dnamix/internal/assembly"
)

// EnvPrefix prefixes every environment variable, e.g. DNAMIX_SEARCH_MAX_VISITS.
const EnvPrefix = "DNAMIX"

var ErrInvalid = errors.New("config: invalid")

// LogConfig selects the logger.
type LogConfig struct {
	// debug, info, warn or error
	Level string `mapstructure:"level"`
	// human readable console output instead of JSON
	Development bool `mapstructure:"development"`
}

// HomologyConfig bounds the overlaps joining Gibson fragments.
type HomologyConfig struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// SearchConfig limits the assembly search.
type SearchConfig struct {
	MinParts   int  `mapstructure:"min-parts"`
	MaxParts   int  `mapstructure:"max-parts"`
	MaxResults int  `mapstructure:"max-results"`
	MaxDepth   int  `mapstructure:"max-depth"`
	MaxVisits  int  `mapstructure:"max-visits"`
	Unique     bool `mapstructure:"unique"`
}

// Config is the root-level settings struct.
type Config struct {
	Log LogConfig `mapstructure:"log"`

	// enzyme used when a command or plan names none
	Enzyme string `mapstructure:"enzyme"`
	// REBASE file with extra enzymes, optional
	Rebase string `mapstructure:"rebase"`

	Homology HomologyConfig `mapstructure:"homology"`
	Search   SearchConfig   `mapstructure:"search"`

	// parallel mixes during linker assembly; 0 means GOMAXPROCS
	Workers int `mapstructure:"workers"`

	// parts database used by the import command and --db
	DB string `mapstructure:"db"`
	// fasta or json
	Format string `mapstructure:"format"`
	// node-exporter textfile written after each run, optional
	MetricsFile string `mapstructure:"metrics-file"`
}

// SetDefaults registers the default of every key on v. Keys without a
// default are invisible to environment lookups during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("enzyme", "BsaI")
	v.SetDefault("rebase", "")
	v.SetDefault("homology.min", 10)
	v.SetDefault("homology.max", 0)
	v.SetDefault("search.min-parts", 1)
	v.SetDefault("search.max-parts", 0)
	v.SetDefault("search.max-results", 0)
	v.SetDefault("search.max-depth", 0)
	v.SetDefault("search.max-visits", 1_000_000)
	v.SetDefault("search.unique", false)
	v.SetDefault("workers", 0)
	v.SetDefault("db", "dnamix.db")
	v.SetDefault("format", "fasta")
	v.SetDefault("metrics-file", "")
}

// Load populates a Config from v. When path is set, the YAML file there is
// merged over the defaults.
func Load(v *viper.Viper, path string) (Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read settings %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Homology.Min < 1:
		return fmt.Errorf("%w: homology.min must be positive", ErrInvalid)
	case c.Homology.Max != 0 && c.Homology.Max < c.Homology.Min:
		return fmt.Errorf("%w: homology.max %d below homology.min %d", ErrInvalid, c.Homology.Max, c.Homology.Min)
	case c.Search.MaxParts != 0 && c.Search.MaxParts < c.Search.MinParts:
		return fmt.Errorf("%w: search.max-parts %d below search.min-parts %d", ErrInvalid, c.Search.MaxParts, c.Search.MinParts)
	case c.Search.MaxResults < 0 || c.Search.MaxDepth < 0 || c.Search.MaxVisits < 0:
		return fmt.Errorf("%w: search limits must not be negative", ErrInvalid)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	return nil
}

// Budget returns the search limits; zero fields are unlimited.
func (c Config) Budget() assembly.Budget {
	return assembly.Budget{
		MaxResults: c.Search.MaxResults,
		MaxDepth:   c.Search.MaxDepth,
		MaxVisits:  c.Search.MaxVisits,
	}
}
