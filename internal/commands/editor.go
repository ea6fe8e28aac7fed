package commands

import (
	"errors"
	"flag"
	"fmt"
	"slices"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gobwas/glob"

	"stage-designer/internal/camera"
	"stage-designer/internal/mapping"
	"stage-designer/internal/preview"
	"stage-designer/internal/scene"
	"stage-designer/internal/screen"
	"stage-designer/internal/source"
	"stage-designer/internal/units"
)

// ErrNoSelection is returned by commands that act on the selection when nothing is selected.
var ErrNoSelection = errors.New("no screen selected")

// Editor is what the editor commands act on. Checkpoint records an undo step and must be called
// before every mutation of the scene.
type Editor interface {
	Scene() *scene.Scene
	Checkpoint()
	Undo() bool
	Redo() bool
	Save(path string) error // empty path saves to the current project file
	Load(path string) error
	NewProject()
	Unit() units.Unit
	SetUnit(u units.Unit)
	ApplyPreset(p camera.Preset)
	SetGridVisible(show bool)
	SetShowFPS(show bool)
}

// RegisterEditor adds the editor commands (add, remove, dup, select, list, curve, crop, mask, size, move,
// source, undo, redo, save, load, new, units, camera, preview, grid, fps) and help.
func RegisterEditor(r *Registry, ed Editor) {
	c := &editorCommands{r: r, ed: ed}
	c.register()
	r.RegisterHelp()
}

type editorCommands struct {
	r  *Registry
	ed Editor
}

func (c *editorCommands) register() {
	{
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		name := fs.String("name", "", "screen name")
		c.r.Register("add", "[-name NAME]", fs, func() error { return c.add(*name) })
	}
	{
		fs := flag.NewFlagSet("remove", flag.ContinueOnError)
		c.r.Register("remove", "[INDEX...]", fs, func() error { return c.remove(fs.Args()) })
	}
	{
		fs := flag.NewFlagSet("dup", flag.ContinueOnError)
		c.r.Register("dup", "[INDEX]", fs, func() error { return c.dup(fs.Args()) })
	}
	{
		fs := flag.NewFlagSet("select", flag.ContinueOnError)
		add := fs.Bool("add", false, "extend the selection")
		c.r.Register("select", "[-add] all|none|INDEX|PATTERN...", fs, func() error { return c.selectCmd(fs.Args(), *add) })
	}
	{
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		c.r.Register("list", "", fs, c.list)
	}
	{
		fs := flag.NewFlagSet("curve", flag.ContinueOnError)
		c.r.Register("curve", "DEGREES", fs, func() error { return c.curve(fs.Args()) })
	}
	{
		fs := flag.NewFlagSet("crop", flag.ContinueOnError)
		reset := fs.Bool("reset", false, "crop to the full source")
		c.r.Register("crop", "-reset | X Y W H", fs, func() error { return c.crop(fs.Args(), *reset) })
	}
	{
		fs := flag.NewFlagSet("mask", flag.ContinueOnError)
		clearMask := fs.Bool("clear", false, "remove the mask")
		c.r.Register("mask", "-clear | X,Y X,Y X,Y...", fs, func() error { return c.mask(fs.Args(), *clearMask) })
	}
	{
		fs := flag.NewFlagSet("size", flag.ContinueOnError)
		c.r.Register("size", "WIDTH HEIGHT", fs, func() error { return c.size(fs.Args()) })
	}
	{
		fs := flag.NewFlagSet("move", flag.ContinueOnError)
		rel := fs.Bool("rel", false, "move by the offset instead of to the position")
		c.r.Register("move", "[-rel] X Y Z", fs, func() error { return c.move(fs.Args(), *rel) })
	}
	{
		fs := flag.NewFlagSet("source", flag.ContinueOnError)
		off := fs.Bool("off", false, "disconnect")
		c.r.Register("source", "-off | INDEX|NAME", fs, func() error { return c.source(fs.Args(), *off) })
	}
	{
		fs := flag.NewFlagSet("undo", flag.ContinueOnError)
		c.r.Register("undo", "", fs, func() error {
			if !c.ed.Undo() {
				c.r.Printf("nothing to undo")
			}
			return nil
		})
	}
	{
		fs := flag.NewFlagSet("redo", flag.ContinueOnError)
		c.r.Register("redo", "", fs, func() error {
			if !c.ed.Redo() {
				c.r.Printf("nothing to redo")
			}
			return nil
		})
	}
	{
		fs := flag.NewFlagSet("save", flag.ContinueOnError)
		c.r.Register("save", "[PATH]", fs, func() error { return c.ed.Save(fs.Arg(0)) })
	}
	{
		fs := flag.NewFlagSet("load", flag.ContinueOnError)
		c.r.Register("load", "PATH", fs, func() error {
			if fs.NArg() != 1 {
				return ErrUsage
			}
			return c.ed.Load(fs.Arg(0))
		})
	}
	{
		fs := flag.NewFlagSet("new", flag.ContinueOnError)
		c.r.Register("new", "", fs, func() error {
			c.ed.NewProject()
			return nil
		})
	}
	{
		fs := flag.NewFlagSet("units", flag.ContinueOnError)
		c.r.Register("units", "[m|cm|ft|in]", fs, func() error { return c.units(fs.Args()) })
	}
	{
		fs := flag.NewFlagSet("camera", flag.ContinueOnError)
		c.r.Register("camera", "front|top|three-quarter|level|default", fs, func() error {
			if fs.NArg() != 1 {
				return ErrUsage
			}
			p, err := camera.ParsePreset(fs.Arg(0))
			if err != nil {
				return err
			}
			c.ed.ApplyPreset(p)
			return nil
		})
	}
	{
		fs := flag.NewFlagSet("preview", flag.ContinueOnError)
		view := fs.String("view", "front", "front or top")
		width := fs.Int("width", 1280, "image width in pixels")
		height := fs.Int("height", 720, "image height in pixels")
		c.r.Register("preview", "[-view front|top] [-width W] [-height H] PATH.png|PATH.webp", fs, func() error {
			if fs.NArg() != 1 {
				return ErrUsage
			}
			v, err := preview.ParseView(*view)
			if err != nil {
				return err
			}
			opt := preview.DefaultOptions()
			opt.View, opt.Width, opt.Height = v, *width, *height
			if err := preview.Save(fs.Arg(0), c.ed.Scene().Screens(), opt); err != nil {
				return err
			}
			c.r.Printf("wrote %s", fs.Arg(0))
			return nil
		})
	}
	{
		fs := flag.NewFlagSet("grid", flag.ContinueOnError)
		show := fs.Bool("show", true, "show the floor grid")
		c.r.Register("grid", "[-show=true|false]", fs, func() error {
			c.ed.SetGridVisible(*show)
			return nil
		})
	}
	{
		fs := flag.NewFlagSet("fps", flag.ContinueOnError)
		show := fs.Bool("show", true, "show the FPS counter")
		c.r.Register("fps", "[-show=true|false]", fs, func() error {
			c.ed.SetShowFPS(*show)
			return nil
		})
	}
}

func (c *editorCommands) add(name string) error {
	c.ed.Checkpoint()
	s := c.ed.Scene()
	i := s.AddScreen(name)
	s.SelectOnly(i)
	c.r.Printf("added %d: %s", i, s.Screen(i).Name)
	return nil
}

func (c *editorCommands) remove(args []string) error {
	s := c.ed.Scene()
	indices := s.Selected()
	if len(args) > 0 {
		var err error
		if indices, err = parseIndices(s, args); err != nil {
			return err
		}
	}
	if len(indices) == 0 {
		return ErrNoSelection
	}
	c.ed.Checkpoint()
	// Highest first, so earlier removals do not shift the later ones.
	slices.Sort(indices)
	indices = slices.Compact(indices)
	for k := len(indices) - 1; k >= 0; k-- {
		s.RemoveScreen(indices[k])
	}
	c.r.Printf("removed %d screen(s)", len(indices))
	return nil
}

func (c *editorCommands) dup(args []string) error {
	s := c.ed.Scene()
	i := s.Primary()
	if len(args) > 0 {
		indices, err := parseIndices(s, args[:1])
		if err != nil {
			return err
		}
		i = indices[0]
	}
	if i < 0 {
		return ErrNoSelection
	}
	c.ed.Checkpoint()
	n := s.DuplicateScreen(i)
	s.SelectOnly(n)
	c.r.Printf("added %d: %s", n, s.Screen(n).Name)
	return nil
}

func (c *editorCommands) selectCmd(args []string, extend bool) error {
	s := c.ed.Scene()
	if len(args) == 0 {
		return ErrUsage
	}
	var picked []int
	switch args[0] {
	case "none":
		s.ClearSelection()
		return nil
	case "all":
		for i := range s.Count() {
			picked = append(picked, i)
		}
	default:
		for _, arg := range args {
			matched, err := matchScreens(s, arg)
			if err != nil {
				return err
			}
			picked = append(picked, matched...)
		}
	}
	if len(picked) == 0 {
		return fmt.Errorf("no screen matches %s", strings.Join(args, " "))
	}
	if extend {
		picked = append(s.Selected(), picked...)
	}
	s.SetSelection(picked, picked[len(picked)-1])
	c.r.Printf("%s", s)
	return nil
}

// matchScreens resolves arg as an index or, failing that, as a glob pattern over screen names.
func matchScreens(s *scene.Scene, arg string) ([]int, error) {
	if i, err := strconv.Atoi(arg); err == nil {
		if s.Screen(i) == nil {
			return nil, fmt.Errorf("no screen %d", i)
		}
		return []int{i}, nil
	}
	g, err := glob.Compile(arg)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", arg, err)
	}
	var out []int
	for i, sc := range s.Screens() {
		if g.Match(sc.Name) {
			out = append(out, i)
		}
	}
	return out, nil
}

func parseIndices(s *scene.Scene, args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, arg := range args {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("%w: index %q", ErrUsage, arg)
		}
		if s.Screen(i) == nil {
			return nil, fmt.Errorf("no screen %d", i)
		}
		out = append(out, i)
	}
	return out, nil
}

func (c *editorCommands) list() error {
	s := c.ed.Scene()
	u := c.ed.Unit()
	if s.Count() == 0 {
		c.r.Printf("no screens")
	}
	for i, sc := range s.Screens() {
		mark := " "
		switch {
		case i == s.Primary():
			mark = "*"
		case s.IsSelected(i):
			mark = "+"
		}
		src := "-"
		if sc.SourceName != "" {
			src = sc.SourceName
		}
		c.r.Printf("%s%d %q %s x %s %s src=%s", mark, i, sc.Name,
			u.Format(sc.Width()*sc.Scale.X), u.Format(sc.Height()*sc.Scale.Y), sc.MeshMode(), src)
	}
	return nil
}

// selection returns the selected screens, or ErrNoSelection.
func (c *editorCommands) selection() ([]*screen.Screen, error) {
	screens := c.ed.Scene().SelectedScreens()
	if len(screens) == 0 {
		return nil, ErrNoSelection
	}
	return screens, nil
}

func (c *editorCommands) curve(args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	deg, err := strconv.ParseFloat(args[0], 32)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	screens, err := c.selection()
	if err != nil {
		return err
	}
	c.ed.Checkpoint()
	for _, sc := range screens {
		sc.SetCurvature(float32(deg))
	}
	return nil
}

// ParseCrop reads X Y W H as a crop rect and checks it lies inside the source and is at least
// mapping.MinSize on each side.
func ParseCrop(args []string) (screen.Rect, error) {
	if len(args) != 4 {
		return screen.Rect{}, ErrUsage
	}
	var v [4]float32
	for i, arg := range args {
		f, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return screen.Rect{}, fmt.Errorf("%w: %v", ErrUsage, err)
		}
		v[i] = float32(f)
	}
	r := screen.Rect{X: v[0], Y: v[1], W: v[2], H: v[3]}
	if r.X < 0 || r.Y < 0 || r.W < mapping.MinSize || r.H < mapping.MinSize || r.Right() > 1 || r.Bottom() > 1 {
		return screen.Rect{}, fmt.Errorf("crop %v is outside the source", args)
	}
	return r, nil
}

func (c *editorCommands) crop(args []string, reset bool) error {
	r := screen.FullRect()
	if !reset {
		var err error
		if r, err = ParseCrop(args); err != nil {
			return err
		}
	}
	screens, err := c.selection()
	if err != nil {
		return err
	}
	c.ed.Checkpoint()
	for _, sc := range screens {
		sc.SetCropRect(r)
	}
	return nil
}

// ParseMask reads "x,y" pairs of normalized coordinates.
func ParseMask(args []string) ([]rl.Vector2, error) {
	if len(args) < screen.MinMaskPoints {
		return nil, fmt.Errorf("%w: a mask needs at least %d points", ErrUsage, screen.MinMaskPoints)
	}
	pts := make([]rl.Vector2, 0, len(args))
	for _, arg := range args {
		xs, ys, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, fmt.Errorf("%w: point %q", ErrUsage, arg)
		}
		x, errX := strconv.ParseFloat(xs, 32)
		y, errY := strconv.ParseFloat(ys, 32)
		if errX != nil || errY != nil || x < 0 || x > 1 || y < 0 || y > 1 {
			return nil, fmt.Errorf("point %q must be two numbers in [0,1]", arg)
		}
		pts = append(pts, rl.NewVector2(float32(x), float32(y)))
	}
	return pts, nil
}

func (c *editorCommands) mask(args []string, clearMask bool) error {
	var pts []rl.Vector2
	if !clearMask {
		var err error
		if pts, err = ParseMask(args); err != nil {
			return err
		}
	}
	screens, err := c.selection()
	if err != nil {
		return err
	}
	c.ed.Checkpoint()
	for _, sc := range screens {
		if clearMask {
			sc.ClearMask()
		} else {
			sc.SetMask(pts)
		}
	}
	return nil
}

// parseLengths reads lengths in the editor's unit (or with an explicit suffix) into scene units.
func (c *editorCommands) parseLengths(args []string) ([]float32, error) {
	u := c.ed.Unit()
	out := make([]float32, len(args))
	for i, arg := range args {
		v, err := u.Parse(arg)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (c *editorCommands) size(args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	v, err := c.parseLengths(args)
	if err != nil {
		return err
	}
	if v[0] <= 0 || v[1] <= 0 {
		return fmt.Errorf("size must be positive")
	}
	screens, err := c.selection()
	if err != nil {
		return err
	}
	c.ed.Checkpoint()
	for _, sc := range screens {
		sc.SetSize(v[0], v[1])
	}
	return nil
}

func (c *editorCommands) move(args []string, rel bool) error {
	if len(args) != 3 {
		return ErrUsage
	}
	v, err := c.parseLengths(args)
	if err != nil {
		return err
	}
	screens, err := c.selection()
	if err != nil {
		return err
	}
	c.ed.Checkpoint()
	p := rl.NewVector3(v[0], v[1], v[2])
	for _, sc := range screens {
		if rel {
			sc.Position = rl.Vector3Add(sc.Position, p)
		} else {
			sc.Position = p
		}
	}
	return nil
}

func (c *editorCommands) source(args []string, off bool) error {
	s := c.ed.Scene()
	if !off && len(args) != 1 {
		return ErrUsage
	}
	idx := -1
	if !off {
		idx = resolveSource(s.AvailableSources(), args[0])
		if idx < 0 {
			return fmt.Errorf("no source %q", args[0])
		}
	}
	targets := s.Selected()
	if len(targets) == 0 {
		return ErrNoSelection
	}
	c.ed.Checkpoint()
	for _, i := range targets {
		if off {
			s.DisconnectSource(i)
		} else {
			s.AssignSource(i, idx)
		}
	}
	return nil
}

// resolveSource finds a source by exact name first, then by index.
func resolveSource(list []source.Source, arg string) int {
	if i := source.IndexOf(list, arg); i >= 0 {
		return i
	}
	if n, err := strconv.Atoi(arg); err == nil {
		for _, src := range list {
			if src.Index == n {
				return n
			}
		}
	}
	return -1
}

func (c *editorCommands) units(args []string) error {
	if len(args) == 0 {
		c.r.Printf("units: %s", c.ed.Unit())
		return nil
	}
	u, err := units.ParseUnit(args[0])
	if err != nil {
		return err
	}
	c.ed.SetUnit(u)
	c.r.Printf("units: %s", u)
	return nil
}
