package main

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNewThenInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "show", "stage.json")
	out, err := run(t, "new", "--screens", "2", path)
	require.NoError(t, err)
	assert.Contains(t, out, "2 screens")

	out, err = run(t, "info", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Screens:  2")
	assert.Contains(t, out, "Screen 1")
	assert.Contains(t, out, "Screen 2")
	assert.Contains(t, out, "3.20 m × 1.80 m")
	assert.Contains(t, out, "Camera:   default")

	out, err = run(t, "info", "--unit", "cm", path)
	require.NoError(t, err)
	assert.Contains(t, out, "320.00 cm × 180.00 cm")

	_, err = run(t, "info", "--unit", "furlong", path)
	assert.Error(t, err)
}

func TestNewRefusesToOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stage.json")
	_, err := run(t, "new", path)
	require.NoError(t, err)
	_, err = run(t, "new", path)
	assert.ErrorContains(t, err, "exists")
	_, err = run(t, "new", "--force", "--screens", "3", path)
	require.NoError(t, err)

	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+path+" (3 screens)")
}

func TestValidateReportsEveryFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	bad := filepath.Join(dir, "bad.json")
	_, err := run(t, "new", good)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":1}`), 0o644))

	out, err := run(t, "validate", bad, good)
	assert.Error(t, err)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, out, "ok   "+good)
}

func TestPreviewWritesImage(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "stage.json")
	_, err := run(t, "new", "--screens", "3", project)
	require.NoError(t, err)

	img := filepath.Join(dir, "out", "plan.png")
	out, err := run(t, "preview", "--view", "top", "--width", "320", "--height", "200", project, img)
	require.NoError(t, err)
	assert.Contains(t, out, "top, 320×200")
	data, err := os.ReadFile(img)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))

	_, err = run(t, "preview", "--view", "side", project, img)
	assert.Error(t, err)
	_, err = run(t, "preview", project, filepath.Join(dir, "plan.gif"))
	assert.Error(t, err)
}

func TestFetchSavesIntoFolder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("\x89PNG\r\n\x1a\n"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "sources")
	out, err := run(t, "fetch", "--dir", dir, srv.URL+"/backdrop.png")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "backdrop.png"))
	_, err = os.Stat(filepath.Join(dir, "backdrop.png"))
	assert.NoError(t, err)
}

func TestUnpackListsExtractedStills(t *testing.T) {
	dir := t.TempDir()
	bundle := filepath.Join(dir, "stills.zip")
	f, err := os.Create(bundle)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for _, name := range []string{"pack/a.png", "pack/notes.txt"} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	sources := filepath.Join(dir, "sources")
	out, err := run(t, "unpack", "--dir", sources, bundle)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(sources, "a.png")+"\n", out)
}
