package cli

import (
	"fmt"
	"os"

	"github.com/roboco-io/docx2json/internal/codec"
	"github.com/spf13/cobra"
)

var applyOutput string

var applyCmd = &cobra.Command{
	Use:   "apply <document.json> <patch.json>",
	Short: "Apply edit fragments to a JSON document",
	Long: `Apply sparse edit fragments to a full JSON document.

The patch is an array of objects (or one bare object), each carrying the
"id" of the node it targets plus the fields to overwrite. Fragments whose
id does not exist in the document are skipped with a warning.

Examples:
  docx2json apply report.json changes.json -o merged.json
  docx2json apply report.json changes.json | docx2json build /dev/stdin`,
	Args: cobra.ExactArgs(2),
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", "", "output file path (default: stdout)")

	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	documentJSON, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	patchJSON, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read patch: %w", err)
	}

	merged, result, err := codec.ApplyPatchJSON(documentJSON, patchJSON)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "applied %d fragment(s)\n", result.Applied)

	return writeOutput(cmd, applyOutput, merged)
}
