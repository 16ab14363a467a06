package cli

import (
	"fmt"
	"os"

	"github.com/roboco-io/docx2json/internal/codec"
	"github.com/roboco-io/docx2json/internal/ir"
	"github.com/spf13/cobra"
)

var (
	createOutput      string
	createProvider    string
	createModel       string
	createMaxTokens   int
	createTemperature float64
	createSaveJSON    string
)

var createCmd = &cobra.Command{
	Use:   "create <description>",
	Short: "Create a new docx file from a description",
	Long: `Create a new docx file by describing its content in natural language.

The model authors the document as addressable JSON, which is then built
into a docx file.

Examples:
  docx2json create "A one-page cover letter for a backend engineer role"
  docx2json create "Meeting minutes template with an attendees table" -o minutes.docx`,
	Args: cobra.ExactArgs(1),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "created.docx", "output file path")
	createCmd.Flags().StringVar(&createProvider, "provider", "", "model provider (anthropic, openai, gemini)")
	createCmd.Flags().StringVar(&createModel, "model", "", "model name")
	createCmd.Flags().IntVar(&createMaxTokens, "max-tokens", 0, "maximum response tokens")
	createCmd.Flags().Float64Var(&createTemperature, "temperature", 0, "sampling temperature")
	createCmd.Flags().StringVar(&createSaveJSON, "save-json", "", "also write the document JSON to this path")

	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	description := args[0]

	ed, _, err := newEditor(createProvider, createModel, createMaxTokens, createTemperature)
	if err != nil {
		return err
	}

	result, err := ed.Create(cmd.Context(), description)
	if err != nil {
		return err
	}

	if createSaveJSON != "" {
		if err := os.WriteFile(createSaveJSON, result.Document, 0644); err != nil {
			return fmt.Errorf("write document JSON: %w", err)
		}
	}

	doc, err := ir.Parse(result.Document)
	if err != nil {
		return fmt.Errorf("created document: %w", err)
	}
	out, warnings, err := codec.Build(doc, codec.BuildOptions{})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if err := os.WriteFile(createOutput, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", createOutput)
	return nil
}
