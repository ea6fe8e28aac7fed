package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stage-designer/internal/preview"
)

func newPreviewCmd() *cobra.Command {
	opt := preview.DefaultOptions()
	var view string
	cmd := &cobra.Command{
		Use:   "preview <project.json> <out.png|out.webp>",
		Short: "Render a flat plan of a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := preview.ParseView(view)
			if err != nil {
				return err
			}
			opt.View = v
			_, screens, err := readScreens(args[0])
			if err != nil {
				return err
			}
			if err := preview.Save(args[1], screens, opt); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d×%d)\n", args[1], opt.View, opt.Width, opt.Height)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&view, "view", "front", "front or top")
	f.IntVar(&opt.Width, "width", opt.Width, "image width in pixels")
	f.IntVar(&opt.Height, "height", opt.Height, "image height in pixels")
	return cmd
}
