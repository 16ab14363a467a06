// Package cli implements the docx2json command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "dev"

// SetVersion sets the version string shown by the version command.
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "docx2json",
	Short: "Bidirectional docx <-> JSON converter for model-driven editing",
	Long: `docx2json converts Word documents to an addressable JSON tree and back.

Every paragraph, run, table and cell in the JSON carries a stable id, so a
language model (or a human) can describe changes as sparse patches against
those ids instead of rewriting the whole document.

Typical round trip:
  docx2json convert report.docx -o report.json --compact
  ... edit report.json, or let a model patch it ...
  docx2json build report.json -o report.docx --source report.docx

Model-backed workflows:
  docx2json edit report.docx "Make the title red" -o edited.docx
  docx2json create "A two-page project proposal" -o proposal.docx`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docx2json %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
