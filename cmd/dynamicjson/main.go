// Command dynamicjson is a thin front-end over the jsonpath, ref, patch,
// merge, and jsonschema packages: one subcommand per subsystem, each
// reading its document from a file argument or stdin. It exists to
// exercise the library end to end, not as an interactive shell.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dynamicjson",
		Short: "Query, patch, merge, and validate JSON documents",
	}
	root.AddCommand(
		newQueryCmd(),
		newGetCmd(),
		newSetCmd(),
		newPatchCmd(),
		newMergeCmd(),
		newValidateCmd(),
	)
	return root
}

// readDoc loads a document from path, or stdin when path is "" or "-".
func readDoc(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func docArg(args []string, idx int) string {
	if idx < len(args) {
		return args[idx]
	}
	return ""
}
