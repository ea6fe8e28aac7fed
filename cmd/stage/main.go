package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"stage-designer/internal/app"
	"stage-designer/internal/graphics"
	"stage-designer/internal/logger"
	"stage-designer/internal/prefs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stage:", err)
		os.Exit(1)
	}
}

type options struct {
	project    string
	sources    string
	prefsPath  string
	fullscreen bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	var opt options
	cmd := &cobra.Command{
		Use:   "stage [project.json]",
		Short: "Stage designer: lay out screens in 3D and map sources onto them",
		Long: `Stage designer: lay out screens in 3D and map sources onto them.

Designer mode:
  Left click / drag   Select, box select, move with the gizmo
  W/E/R               Translate, rotate, scale
  A, Del, Ctrl+D      Add, remove, duplicate
  M                   Edit the crop of the selected screen
  1-9                 Assign a source
  Ctrl+Z / Ctrl+Y     Undo, redo
  Ctrl+S / Ctrl+O     Save, revert to file
  Tab                 View mode
  ` + "`" + ` or Esc            Terminal`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opt.project = args[0]
			}
			return run(opt)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opt.project, "project", "", "project file to open")
	f.StringVar(&opt.sources, "sources", "", "folder of still images to serve as sources (default: last used)")
	f.StringVar(&opt.prefsPath, "prefs", prefs.PrefsPath, "preferences file")
	f.BoolVar(&opt.fullscreen, "fullscreen", false, "start fullscreen")
	f.BoolVar(&opt.debug, "debug", false, "log debug messages")
	return cmd
}

func run(opt options) error {
	log := logger.New()
	if opt.debug {
		log.SetLevel(slog.LevelDebug)
	}
	logger.SetDefault(log.Slog())

	p, err := prefs.LoadFrom(opt.prefsPath)
	if err != nil {
		return err
	}
	if opt.sources == "" {
		opt.sources = p.SourceFolder
	}
	if opt.sources != "" {
		if _, err := os.Stat(opt.sources); err != nil {
			log.Logf("sources %s: %v", opt.sources, err)
			opt.sources = ""
		}
	}
	win := graphics.DefaultWindow()
	win.Fullscreen = opt.fullscreen
	a, err := app.New(app.Config{
		Prefs:       p,
		PrefsPath:   opt.prefsPath,
		ProjectPath: opt.project,
		SourceDir:   opt.sources,
		Log:         log,
		Width:       float32(win.Width),
		Height:      float32(win.Height),
	})
	if err != nil {
		return err
	}
	graphics.Run(win, a.Init, a.Update, a.Draw, a.Close)
	return nil
}
