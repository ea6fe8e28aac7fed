package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stage-designer/internal/download"
)

func newFetchCmd() *cobra.Command {
	var dir string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Download still images into a source folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := download.New()
			c.HTTP.Timeout = timeout
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			for _, url := range args {
				path, err := c.Image(ctx, url, dir)
				if err != nil {
					return fmt.Errorf("%s: %w", url, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "sources", "source folder to save into")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "per-request timeout")
	return cmd
}
