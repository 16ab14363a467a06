package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/roboco-io/docx2json/internal/codec"
	"github.com/roboco-io/docx2json/internal/docx"
	"github.com/roboco-io/docx2json/internal/ir"
	"github.com/spf13/cobra"
)

var (
	buildOutput    string
	buildSource    string
	buildImagesDir string
)

var buildCmd = &cobra.Command{
	Use:   "build <file.json>",
	Short: "Build a docx file from addressable JSON",
	Long: `Build a docx file from the addressable JSON tree.

Both the full and the compact JSON form are accepted. Image references
are resolved against --source (the docx the JSON was converted from)
and --images (a directory of image files), in that order; references
that resolve nowhere become text placeholders.

Examples:
  docx2json build report.json -o report.docx
  docx2json build report.json -o report.docx --source original.docx
  docx2json build report.json -o report.docx --images ./media`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "output file path (default: input name with .docx)")
	buildCmd.Flags().StringVar(&buildSource, "source", "", "original docx to take images from")
	buildCmd.Flags().StringVar(&buildImagesDir, "images", "", "directory with image files")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	doc, err := ir.Parse(data)
	if err != nil {
		return err
	}

	images, err := imageSources(buildSource, buildImagesDir)
	if err != nil {
		return err
	}

	out, warnings, err := codec.Build(doc, codec.BuildOptions{Images: images})
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	outputPath := buildOutput
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, ".json") + ".docx"
	}
	if err := os.WriteFile(outputPath, out, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputPath)
	return nil
}

// imageSources builds the lookup chain for image references: the source
// package first, then the images directory.
func imageSources(sourcePath, imagesDir string) (codec.ImageSource, error) {
	var chain codec.ChainImages
	if sourcePath != "" {
		data, err := os.ReadFile(sourcePath)
		if err != nil {
			return nil, fmt.Errorf("read source docx: %w", err)
		}
		if err := docx.CheckFormat(data); err != nil {
			return nil, fmt.Errorf("source docx: %w", err)
		}
		pkg, err := docx.Open(data)
		if err != nil {
			return nil, fmt.Errorf("open source docx: %w", err)
		}
		chain = append(chain, codec.PackageImages(pkg))
	}
	if imagesDir != "" {
		chain = append(chain, codec.DirImages(imagesDir))
	}
	if len(chain) == 0 {
		return nil, nil
	}
	return chain, nil
}
