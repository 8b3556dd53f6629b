package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dnamix/internal/assembly"
)

func TestDefaults(t *testing.T) {
	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, "BsaI", c.Enzyme)
	assert.Equal(t, 10, c.Homology.Min)
	assert.Equal(t, 1, c.Search.MinParts)
	assert.Equal(t, "fasta", c.Format)
	assert.Equal(t, assembly.Budget{MaxVisits: 1_000_000}, c.Budget())
}

const settings = `
log:
  level: debug
enzyme: BsmBI
homology:
  min: 15
  max: 40
search:
  max-parts: 6
  max-results: 100
  unique: true
workers: 4
`

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(settings), 0o600))

	c, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Equal(t, "BsmBI", c.Enzyme)
	assert.Equal(t, HomologyConfig{Min: 15, Max: 40}, c.Homology)
	assert.Equal(t, 6, c.Search.MaxParts)
	assert.True(t, c.Search.Unique)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, 100, c.Budget().MaxResults)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("DNAMIX_SEARCH_MAX_VISITS", "50")
	t.Setenv("DNAMIX_ENZYME", "BbsI")
	t.Setenv("DNAMIX_METRICS_FILE", "/tmp/dnamix.prom")

	c, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 50, c.Search.MaxVisits)
	assert.Equal(t, "BbsI", c.Enzyme)
	assert.Equal(t, "/tmp/dnamix.prom", c.MetricsFile)
}

func TestFlagsWin(t *testing.T) {
	v := viper.New()
	v.Set("homology.min", 20)
	c, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 20, c.Homology.Min)
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"homology min", "homology.min", 0},
		{"homology max", "homology.max", 5},
		{"max parts", "search.max-parts", -1},
		{"negative visits", "search.max-visits", -1},
		{"workers", "workers", -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := Load(v, "")
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}

	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
