package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roboco-io/docx2json/internal/codec"
	"github.com/roboco-io/docx2json/internal/docx"
	"github.com/roboco-io/docx2json/internal/ir"
	"github.com/spf13/cobra"
)

var (
	editOutput      string
	editProvider    string
	editModel       string
	editMaxTokens   int
	editTemperature float64
	editSaveJSON    string
	editVerbose     bool
)

var editCmd = &cobra.Command{
	Use:   "edit <file.docx> <instruction>",
	Short: "Edit a docx file with a model instruction",
	Long: `Edit a docx file by describing the change in natural language.

The document is converted to compact JSON, the model produces sparse edit
fragments against the node ids, the fragments are merged into the tree and
the result is rebuilt into a docx file. Images from the input document are
carried over.

Environment variables:
  ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY

Examples:
  docx2json edit report.docx "Make every heading dark blue"
  docx2json edit report.docx "Fix typos in the summary" -o fixed.docx
  docx2json edit report.docx "Translate the title to French" --provider openai`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editOutput, "output", "o", "", "output file path (default: <input>_edited.docx)")
	editCmd.Flags().StringVar(&editProvider, "provider", "", "model provider (anthropic, openai, gemini)")
	editCmd.Flags().StringVar(&editModel, "model", "", "model name")
	editCmd.Flags().IntVar(&editMaxTokens, "max-tokens", 0, "maximum response tokens")
	editCmd.Flags().Float64Var(&editTemperature, "temperature", 0, "sampling temperature")
	editCmd.Flags().StringVar(&editSaveJSON, "save-json", "", "also write the merged JSON to this path")
	editCmd.Flags().BoolVarP(&editVerbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	inputPath, instruction := args[0], args[1]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	doc, err := codec.Convert(data, filepath.Base(inputPath))
	if err != nil {
		return err
	}
	tree, err := codec.Compact(doc)
	if err != nil {
		return err
	}
	documentJSON, err := codec.MarshalIndent(tree)
	if err != nil {
		return err
	}

	ed, providerName, err := newEditor(editProvider, editModel, editMaxTokens, editTemperature)
	if err != nil {
		return err
	}
	if editVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "sending %d bytes of JSON to %s\n", len(documentJSON), providerName)
	}

	result, err := ed.Edit(cmd.Context(), documentJSON, instruction)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}
	if editVerbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "model %s applied %d fragment(s), %d/%d tokens\n",
			result.Model, result.Applied, result.Usage.InputTokens, result.Usage.OutputTokens)
	}
	if result.Applied == 0 {
		return fmt.Errorf("the model produced no applicable edits")
	}

	if editSaveJSON != "" {
		if err := os.WriteFile(editSaveJSON, result.Document, 0644); err != nil {
			return fmt.Errorf("write merged JSON: %w", err)
		}
	}

	merged, err := ir.Parse(result.Document)
	if err != nil {
		return fmt.Errorf("merged document: %w", err)
	}

	pkg, err := docx.Open(data)
	if err != nil {
		return err
	}
	out, warnings, err := codec.Build(merged, codec.BuildOptions{Images: codec.PackageImages(pkg)})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	outputPath := editOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".docx") + "_edited.docx"
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputPath)
	return nil
}
