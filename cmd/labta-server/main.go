// Command labta-server is the thin HTTP demonstration layer over the
// grading pipeline. spec.md §1 treats the transport as an external
// collaborator; this package stays a minimal chi-routed adapter rather
// than growing its own request-validation or persistence conventions.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "labta-server",
	Short: "LabTA sandboxed grading and hint server",
}

func main() {
	rootCmd.AddCommand(serveCmd, loadkbCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
