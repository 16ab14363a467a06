package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboco-io/docx2json/internal/codec"
	"github.com/spf13/cobra"
)

var (
	convertOutput  string
	convertCompact bool
	convertPretty  bool
	convertVerbose bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.docx>",
	Short: "Convert a docx file to addressable JSON",
	Long: `Convert a docx file to the addressable JSON tree.

By default the full tree is written, with every optional field present
(as null when unset). --compact merges equally-formatted adjacent runs
and strips empty fields, which typically shrinks the output severalfold
and is the form intended for model consumption.

Examples:
  docx2json convert report.docx
  docx2json convert report.docx -o report.json
  docx2json convert report.docx --compact`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "output file path (default: stdout)")
	convertCmd.Flags().BoolVar(&convertCompact, "compact", false, "merge runs and strip empty fields")
	convertCmd.Flags().BoolVar(&convertPretty, "pretty", true, "indent the JSON output")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	doc, err := codec.Convert(data, filepath.Base(inputPath))
	if err != nil {
		return err
	}
	if convertVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "parsed %s: %d blocks, %d sections\n",
			inputPath, len(doc.Blocks), len(doc.Sections))
	}

	marshal := codec.MarshalIndent
	if !convertPretty {
		marshal = codec.Marshal
	}

	var out []byte
	if convertCompact {
		tree, err := codec.Compact(doc)
		if err != nil {
			return err
		}
		out, err = marshal(tree)
		if err != nil {
			return err
		}
	} else {
		out, err = marshal(doc)
		if err != nil {
			return err
		}
	}

	return writeOutput(cmd, convertOutput, out)
}

// writeOutput writes to the given path, or stdout when the path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
