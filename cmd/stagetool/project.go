package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stage-designer/internal/scene"
	"stage-designer/internal/screen"
	"stage-designer/internal/units"
)

func readScreens(path string) (*scene.Document, []*screen.Screen, error) {
	doc, err := scene.ReadDocument(path)
	if err != nil {
		return nil, nil, err
	}
	screens, err := doc.Decode()
	if err != nil {
		return nil, nil, err
	}
	return doc, screens, nil
}

func newInfoCmd() *cobra.Command {
	var unitName string
	cmd := &cobra.Command{
		Use:   "info <project.json>",
		Short: "List the screens of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := units.ParseUnit(unitName)
			if err != nil {
				return err
			}
			doc, screens, err := readScreens(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:  %s (version %d)\n", args[0], doc.Version)
			camera := "default"
			if len(doc.Camera) > 0 {
				camera = "saved"
			}
			fmt.Fprintf(out, "Camera:   %s\n", camera)
			fmt.Fprintf(out, "Screens:  %d\n", len(screens))
			for i, sc := range screens {
				p := sc.Position
				src := "-"
				if sc.SourceName != "" {
					src = sc.SourceName
				}
				fmt.Fprintf(out, "  %d. %-16s %s × %s  at (%s, %s, %s)  %s  source: %s\n", i+1, sc.Name,
					u.Format(sc.Width()*sc.Scale.X), u.Format(sc.Height()*sc.Scale.Y),
					u.Format(p.X), u.Format(p.Y), u.Format(p.Z), sc.MeshMode(), src)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&unitName, "unit", "m", "unit for lengths: m, cm, ft or in")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project.json>...",
		Short: "Check that project files load",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var errs []error
			for _, path := range args {
				_, screens, err := readScreens(path)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d screens)\n", path, len(screens))
			}
			return errors.Join(errs...)
		},
	}
}

func newNewCmd() *cobra.Command {
	var count int
	var force bool
	cmd := &cobra.Command{
		Use:   "new <project.json>",
		Short: "Write a new project with a row of screens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if count < 1 {
				return fmt.Errorf("--screens must be at least 1")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			}
			s := scene.New()
			s.Reset()
			for s.Count() < count {
				s.AddScreen("")
			}
			if err := s.SaveFile(path, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d screens)\n", path, s.Count())
			return nil
		},
	}
	cmd.Flags().IntVar(&count, "screens", 1, "number of screens")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
