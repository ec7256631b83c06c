package runconfig

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultMatchesSpecConstants(t *testing.T) {
	cfg := Default()
	assert.InDelta(t, 0.99, cfg.RRProb, 1e-9)
	assert.InDelta(t, 1e-2, cfg.BoundaryEpsilon, 1e-9)
	assert.InDelta(t, math.Sqrt2, cfg.MinGridRMultiplier, 1e-9)
	assert.False(t, cfg.LiveProgress)
}

func TestLoadOverridesOnlySpecifiedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pwos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rrProb: 0.95\nliveProgress: true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.95, cfg.RRProb, 1e-9)
	assert.True(t, cfg.LiveProgress)
	assert.InDelta(t, 1e-2, cfg.BoundaryEpsilon, 1e-9)
}

func TestLoadMissingFileReturnsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
