package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRequiresSceneArgument(t *testing.T) {
	err := run([]string{"--spp", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestRunRejectsUnknownIntegrator(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeTestScene(t, dir)

	err := run([]string{"--integrator", "bogus", scenePath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown integrator")
}

func TestRunRejectsUnopenableScene(t *testing.T) {
	err := run([]string{filepath.Join(t.TempDir(), "missing.scene")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration error")
}

func TestRunRendersAndWritesOutputFile(t *testing.T) {
	dir := t.TempDir()
	scenePath := writeTestScene(t, dir)
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(cwd)

	err = run([]string{"--spp", "1", "--nthreads", "1", "--resx", "4", "--resy", "4", "--integrator", "dist", scenePath})
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "dist_scene=*.hdr"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	previews, err := filepath.Glob(filepath.Join(dir, "dist_scene=*-preview.png"))
	require.NoError(t, err)
	assert.Len(t, previews, 1)
}

func writeTestScene(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "unit.scene")
	content := "-2,-2,2,2\n0,0,1,1,1,1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
