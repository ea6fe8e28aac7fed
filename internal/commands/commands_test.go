package commands

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stage-designer/internal/camera"
	"stage-designer/internal/scene"
	"stage-designer/internal/screen"
	"stage-designer/internal/source"
	"stage-designer/internal/undo"
	"stage-designer/internal/units"
)

type fakeEditor struct {
	scene   *scene.Scene
	history *undo.Manager
	unit    units.Unit
	preset  camera.Preset
	grid    bool
	fps     bool
	saved   []string
	loaded  []string
	fresh   int
}

func newFakeEditor() *fakeEditor {
	s := scene.New()
	return &fakeEditor{scene: s, history: undo.New(s, 0), preset: -1, grid: true}
}

func (f *fakeEditor) Scene() *scene.Scene         { return f.scene }
func (f *fakeEditor) Checkpoint()                 { f.history.Push() }
func (f *fakeEditor) Undo() bool                  { return f.history.Undo() }
func (f *fakeEditor) Redo() bool                  { return f.history.Redo() }
func (f *fakeEditor) Save(path string) error      { f.saved = append(f.saved, path); return nil }
func (f *fakeEditor) Load(path string) error      { f.loaded = append(f.loaded, path); return nil }
func (f *fakeEditor) NewProject()                 { f.fresh++ }
func (f *fakeEditor) Unit() units.Unit            { return f.unit }
func (f *fakeEditor) SetUnit(u units.Unit)        { f.unit = u }
func (f *fakeEditor) ApplyPreset(p camera.Preset) { f.preset = p }
func (f *fakeEditor) SetGridVisible(show bool)    { f.grid = show }
func (f *fakeEditor) SetShowFPS(show bool)        { f.fps = show }

func setup(t *testing.T) (*Registry, *fakeEditor, *bytes.Buffer) {
	t.Helper()
	r := NewRegistry()
	out := &bytes.Buffer{}
	r.SetOutput(out)
	ed := newFakeEditor()
	RegisterEditor(r, ed)
	return r, ed, out
}

func run(t *testing.T, r *Registry, line string) {
	t.Helper()
	require.NoError(t, r.ExecuteLine(line), line)
}

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"cmd grid -show=false", []string{"grid", "-show=false"}},
		{"grid -show=false", []string{"grid", "-show=false"}},
		{`add -name "Main Wall"`, []string{"add", "-name", "Main Wall"}},
		{"   ", nil},
		{"cmd ", nil},
	}
	for _, tt := range tests {
		args, err := Parse(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.want, args, tt.line)
	}
	_, err := Parse(`add -name "unterminated`)
	assert.Error(t, err)
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()
	assert.Error(t, r.Execute(nil))
	assert.ErrorIs(t, r.Execute([]string{"nope"}), ErrUnknownCommand)

	fs := flag.NewFlagSet("x", flag.ContinueOnError)
	r.Register("x", "ARG", fs, func() error { return ErrUsage })
	err := r.Execute([]string{"x"})
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, err.Error(), "x ARG")
	assert.Error(t, r.Execute([]string{"x", "-bogus"}))
}

func TestFlagsResetBetweenRuns(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	show := fs.Bool("show", true, "")
	var seen []bool
	r.Register("grid", "", fs, func() error { seen = append(seen, *show); return nil })

	require.NoError(t, r.ExecuteLine("grid -show=false"))
	require.NoError(t, r.ExecuteLine("grid"))
	assert.Equal(t, []bool{false, true}, seen)
}

func TestHelpListsCommands(t *testing.T) {
	r, _, out := setup(t)
	run(t, r, "help")
	assert.Contains(t, out.String(), "crop -reset | X Y W H")
	assert.Contains(t, out.String(), "undo")
	out.Reset()
	run(t, r, "help move")
	assert.Equal(t, "move [-rel] X Y Z\n", out.String())
	assert.ErrorIs(t, r.ExecuteLine("help nope"), ErrUnknownCommand)
	assert.Contains(t, r.Names(), "preview")
}

func TestAddDupRemoveWithUndo(t *testing.T) {
	r, ed, out := setup(t)
	s := ed.scene
	run(t, r, `add -name "Main Wall"`)
	run(t, r, "add")
	assert.Contains(t, out.String(), "added 0: Main Wall")
	require.Equal(t, 2, s.Count())
	assert.Equal(t, 1, s.Primary())

	run(t, r, "dup 0")
	require.Equal(t, 3, s.Count())
	assert.Equal(t, "Main Wall copy", s.Screen(2).Name)
	assert.Equal(t, 2, s.Primary())

	run(t, r, "remove 0 2 0")
	require.Equal(t, 1, s.Count())

	run(t, r, "undo")
	assert.Equal(t, 3, s.Count())
	run(t, r, "redo")
	assert.Equal(t, 1, s.Count())
	run(t, r, "redo")
	assert.Contains(t, out.String(), "nothing to redo")

	run(t, r, "select none")
	assert.ErrorIs(t, r.ExecuteLine("remove"), ErrNoSelection)
	assert.ErrorIs(t, r.ExecuteLine("dup"), ErrNoSelection)
	assert.Error(t, r.ExecuteLine("remove 9"))
}

func TestSelectByIndexAndPattern(t *testing.T) {
	r, ed, _ := setup(t)
	s := ed.scene
	for _, name := range []string{"Wall L", "Wall R", "Floor"} {
		run(t, r, "add -name '"+name+"'")
	}
	run(t, r, "select 'Wall*'")
	assert.Equal(t, []int{0, 1}, s.Selected())
	assert.Equal(t, 1, s.Primary())

	run(t, r, "select 2")
	assert.Equal(t, []int{2}, s.Selected())
	run(t, r, "select -add 0")
	assert.Equal(t, []int{0, 2}, s.Selected())
	assert.Equal(t, 0, s.Primary())

	run(t, r, "select all")
	assert.Equal(t, 3, s.SelectionCount())
	assert.Error(t, r.ExecuteLine("select 'Stage*'"))
	assert.Error(t, r.ExecuteLine("select 7"))
	assert.ErrorIs(t, r.ExecuteLine("select"), ErrUsage)
}

func TestShapeCommands(t *testing.T) {
	r, ed, _ := setup(t)
	s := ed.scene
	run(t, r, "add")
	run(t, r, "add")
	run(t, r, "select all")

	run(t, r, "curve 45")
	for _, sc := range s.Screens() {
		assert.Equal(t, float32(45), sc.Curvature())
	}
	run(t, r, "crop 0.1 0.2 0.5 0.5")
	assert.Equal(t, screen.Rect{X: 0.1, Y: 0.2, W: 0.5, H: 0.5}, s.Screen(1).CropRect())
	run(t, r, "crop -reset")
	assert.True(t, s.Screen(1).CropRect().IsFull())
	assert.Error(t, r.ExecuteLine("crop 0.8 0 0.5 1"))
	assert.ErrorIs(t, r.ExecuteLine("crop 0 0 1"), ErrUsage)

	run(t, r, "mask 0,0 1,0 0.5,1")
	assert.Equal(t, screen.ModePolygon, s.Screen(0).MeshMode())
	run(t, r, "mask -clear")
	assert.False(t, s.Screen(0).HasMask())
	assert.Error(t, r.ExecuteLine("mask 0,0 1,0"))
	assert.Error(t, r.ExecuteLine("mask 0,0 1,0 2,1"))

	depth := ed.history.Len()
	run(t, r, "curve 0")
	assert.Equal(t, depth+1, ed.history.Len())
	run(t, r, "select none")
	assert.ErrorIs(t, r.ExecuteLine("curve 10"), ErrNoSelection)
	assert.Equal(t, depth+1, ed.history.Len())
}

func TestSizeAndMoveUseUnits(t *testing.T) {
	r, ed, _ := setup(t)
	s := ed.scene
	run(t, r, "add")
	run(t, r, "size 4 2.5")
	assert.Equal(t, float32(400), s.Screen(0).Width())
	assert.Equal(t, float32(250), s.Screen(0).Height())

	run(t, r, "units ft")
	assert.Equal(t, units.Feet, ed.unit)
	run(t, r, "move 10 0 1m")
	assert.InDelta(t, 304.8, s.Screen(0).Position.X, 1e-3)
	assert.InDelta(t, 100, s.Screen(0).Position.Z, 1e-3)
	run(t, r, "move -rel 0 1 0")
	assert.InDelta(t, 30.48, s.Screen(0).Position.Y, 1e-3)
	assert.InDelta(t, 304.8, s.Screen(0).Position.X, 1e-3)

	assert.Error(t, r.ExecuteLine("size 0 1"))
	assert.Error(t, r.ExecuteLine("move 1 2 3furlongs"))
	assert.Error(t, r.ExecuteLine("units parsecs"))
}

func TestSourceCommand(t *testing.T) {
	r, ed, _ := setup(t)
	s := ed.scene
	s.SetDirectory(source.NewList("Cam", "Slides"))
	run(t, r, "add")

	run(t, r, "source Slides")
	assert.Equal(t, "Slides", s.Screen(0).SourceName)
	run(t, r, "source 0")
	assert.Equal(t, "Cam", s.Screen(0).SourceName)
	run(t, r, "source -off")
	assert.Empty(t, s.Screen(0).SourceName)
	assert.False(t, s.Screen(0).HasSource())
	assert.Error(t, r.ExecuteLine("source Missing"))
}

func TestProjectAndViewCommands(t *testing.T) {
	r, ed, _ := setup(t)
	run(t, r, "save")
	run(t, r, "save shows/gig.json")
	assert.Equal(t, []string{"", "shows/gig.json"}, ed.saved)
	run(t, r, "load shows/gig.json")
	assert.Equal(t, []string{"shows/gig.json"}, ed.loaded)
	assert.ErrorIs(t, r.ExecuteLine("load"), ErrUsage)
	run(t, r, "new")
	assert.Equal(t, 1, ed.fresh)

	run(t, r, "camera top")
	assert.Equal(t, camera.PresetTop, ed.preset)
	assert.Error(t, r.ExecuteLine("camera sideways"))

	run(t, r, "grid -show=false")
	assert.False(t, ed.grid)
	run(t, r, "fps")
	assert.True(t, ed.fps)
}

func TestPreviewCommand(t *testing.T) {
	r, ed, out := setup(t)
	run(t, r, "add")
	ed.scene.Screen(0).Position = rl.NewVector3(0, 150, 0)
	path := filepath.Join(t.TempDir(), "plan.webp")
	run(t, r, "preview -view top -width 200 -height 100 "+path)
	assert.FileExists(t, path)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out.String()), path))

	err := r.ExecuteLine("preview " + filepath.Join(t.TempDir(), "plan.bmp"))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist) || strings.Contains(err.Error(), "unsupported"))
}

func TestList(t *testing.T) {
	r, ed, out := setup(t)
	assert.NoError(t, r.ExecuteLine("list"))
	assert.Equal(t, "no screens\n", out.String())
	out.Reset()
	run(t, r, "add")
	run(t, r, "add")
	ed.scene.Screen(0).SourceName = "Cam"
	run(t, r, "list")
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, ` 0 "Screen 1" 3.20 m x 1.80 m flat src=Cam`, lines[0])
	assert.Equal(t, `*1 "Screen 2" 3.20 m x 1.80 m flat src=-`, lines[1])
}
