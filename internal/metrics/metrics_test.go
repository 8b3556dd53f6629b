package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.Digested("enzyme", 3)
	r.Digested("enzyme", 2)
	r.Enumerated("circular", 4, 17, false, time.Millisecond)
	r.Enumerated("circular", 5, 40, true, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.digests.WithLabelValues("enzyme")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.fragments.WithLabelValues("enzyme")))
	assert.Equal(t, 9.0, testutil.ToFloat64(r.assemblies.WithLabelValues("circular")))
	assert.Equal(t, 57.0, testutil.ToFloat64(r.visits.WithLabelValues("circular")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.exceeded.WithLabelValues("circular")))
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Digested("adapter", 1)
	path := filepath.Join(t.TempDir(), "dnamix.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `dnamix_digests_total{mode="adapter"} 1`)
}

func TestNilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Digested("enzyme", 1)
		r.Enumerated("linear", 1, 1, false, time.Second)
	})
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "none.prom")))
	assert.Nil(t, r.Registry())
}
