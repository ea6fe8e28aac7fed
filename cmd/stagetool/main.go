// Command stagetool inspects, validates and previews stage projects without opening the editor,
// and fills source folders with stills fetched over HTTP or unpacked from zip bundles.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stagetool:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "stagetool",
		Short:         "Inspect, validate and preview stage projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(
		newInfoCmd(),
		newValidateCmd(),
		newPreviewCmd(),
		newNewCmd(),
		newFetchCmd(),
		newUnpackCmd(),
	)
	return root
}
