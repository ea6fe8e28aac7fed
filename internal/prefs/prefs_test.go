package prefs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-designer/internal/units"
)

func TestMissingFileGivesDefaults(t *testing.T) {
	p, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestInvalidFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("show_fps: [oops\n"), 0644))
	p, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("measurement_unit: feet\nshow_fps: true\n"), 0644))
	p, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, units.Feet, p.Unit)
	assert.True(t, p.ShowFPS)
	assert.True(t, p.GridVisible)
	assert.Equal(t, 2*time.Minute, p.Autosave)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "stage.yaml")
	want := Default()
	want.Unit = units.Inches
	want.Autosave = 30 * time.Second
	want.LastProject = "shows/gig.json"
	want.SourceFolder = "stills"
	want.SnapEnabled = false

	require.NoError(t, SaveTo(path, want))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "measurement_unit: inches")
	assert.Contains(t, string(data), "autosave: 30s")

	got, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNegativeAutosaveDisables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.yaml")
	require.NoError(t, os.WriteFile(path, []byte("autosave: -5s\n"), 0644))
	p, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Zero(t, p.Autosave)
}
