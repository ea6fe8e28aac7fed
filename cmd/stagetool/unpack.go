package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stage-designer/internal/archive"
	"stage-designer/internal/source"
)

func newUnpackCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "unpack <bundle.zip>",
		Short: "Extract the stills in a zip bundle into a source folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := archive.ExtractImages(args[0], dir, source.ImageExts)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "sources", "source folder to extract into")
	return cmd
}
