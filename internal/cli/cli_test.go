package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roboco-io/docx2json/internal/config"
	"github.com/roboco-io/docx2json/internal/docx"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "docx2json" {
		t.Errorf("expected Use 'docx2json', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestVersionCommand(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("expected Use 'version', got '%s'", versionCmd.Use)
	}

	if versionCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestProvidersCommand(t *testing.T) {
	if providersCmd.Use != "providers" {
		t.Errorf("expected Use 'providers', got '%s'", providersCmd.Use)
	}

	if len(providers) != 3 {
		t.Errorf("expected 3 providers, got %d", len(providers))
	}
}

func TestCheckProviderStatus(t *testing.T) {
	tests := []struct {
		name     string
		provider providerInfo
		envValue string
		expected string
	}{
		{
			name: "anthropic with key",
			provider: providerInfo{
				Name:   "anthropic",
				EnvKey: "ANTHROPIC_API_KEY",
			},
			envValue: "test-key",
			expected: "configured",
		},
		{
			name: "openai without key",
			provider: providerInfo{
				Name:   "openai",
				EnvKey: "OPENAI_API_KEY",
			},
			envValue: "",
			expected: "missing key",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.provider.EnvKey, tc.envValue)

			result := checkProviderStatus(tc.provider)
			if result != tc.expected {
				t.Errorf("expected '%s', got '%s'", tc.expected, result)
			}
		})
	}
}

func TestConvertCommandFlags(t *testing.T) {
	if convertCmd.Use != "convert <file.docx>" {
		t.Errorf("expected Use 'convert <file.docx>', got '%s'", convertCmd.Use)
	}

	for _, flag := range []string{"output", "compact", "pretty", "verbose"} {
		if convertCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestBuildCommandFlags(t *testing.T) {
	if buildCmd.Use != "build <file.json>" {
		t.Errorf("expected Use 'build <file.json>', got '%s'", buildCmd.Use)
	}

	for _, flag := range []string{"output", "source", "images"} {
		if buildCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestApplyCommandFlags(t *testing.T) {
	if applyCmd.Use != "apply <document.json> <patch.json>" {
		t.Errorf("expected Use 'apply <document.json> <patch.json>', got '%s'", applyCmd.Use)
	}

	if applyCmd.Flags().Lookup("output") == nil {
		t.Error("expected flag 'output' to exist")
	}
}

func TestEditCommandFlags(t *testing.T) {
	if editCmd.Use != "edit <file.docx> <instruction>" {
		t.Errorf("expected Use 'edit <file.docx> <instruction>', got '%s'", editCmd.Use)
	}

	flags := []string{"output", "provider", "model", "max-tokens", "temperature", "save-json", "verbose"}
	for _, flag := range flags {
		if editCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestCreateCommandFlags(t *testing.T) {
	if createCmd.Use != "create <description>" {
		t.Errorf("expected Use 'create <description>', got '%s'", createCmd.Use)
	}

	flags := []string{"output", "provider", "model", "max-tokens", "temperature", "save-json"}
	for _, flag := range flags {
		if createCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestConfigCommandStructure(t *testing.T) {
	subs := map[string]bool{}
	for _, c := range configCmd.Commands() {
		subs[c.Name()] = true
	}
	for _, name := range []string{"show", "init", "set", "path"} {
		if !subs[name] {
			t.Errorf("expected config subcommand '%s' to exist", name)
		}
	}
}

// fixtureDocx builds a minimal docx with one heading and one body paragraph.
func fixtureDocx(t *testing.T) []byte {
	t.Helper()
	b := docx.NewBuilder()

	title := &docx.Run{Properties: &docx.RunProperties{Bold: docx.OnOffValue(true)}}
	title.SetText("Status Update")
	b.AppendBlock(&docx.Paragraph{
		Properties: &docx.ParagraphProperties{Style: &docx.ValAttr{Val: "Heading1"}},
		Children:   []docx.ParagraphChild{title},
	})

	body := &docx.Run{}
	body.SetText("All systems nominal.")
	b.AppendBlock(&docx.Paragraph{Children: []docx.ParagraphChild{body}})

	data, err := b.Save()
	if err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return data
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvertApplyBuildPipeline(t *testing.T) {
	dir := t.TempDir()

	docxPath := filepath.Join(dir, "status.docx")
	if err := os.WriteFile(docxPath, fixtureDocx(t), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(dir, "status.json")
	if _, _, err := runCommand(t, "convert", docxPath, "-o", jsonPath); err != nil {
		t.Fatalf("convert: %v", err)
	}
	converted, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(converted), "Status Update") {
		t.Error("expected converted JSON to contain the heading text")
	}
	if !strings.Contains(string(converted), `"doc-obj-1"`) {
		t.Error("expected converted JSON to carry node ids")
	}

	// Patch the body run text by id. doc-obj-1 is the heading paragraph,
	// doc-obj-2 its run, doc-obj-3 the body paragraph, doc-obj-4 its run.
	patchPath := filepath.Join(dir, "patch.json")
	patch := `[{"id": "doc-obj-4", "text": "All systems degraded."}]`
	if err := os.WriteFile(patchPath, []byte(patch), 0o644); err != nil {
		t.Fatal(err)
	}

	mergedPath := filepath.Join(dir, "merged.json")
	_, stderr, err := runCommand(t, "apply", jsonPath, patchPath, "-o", mergedPath)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(stderr, "applied 1 fragment(s)") {
		t.Errorf("expected applied count on stderr, got: %s", stderr)
	}

	outPath := filepath.Join(dir, "rebuilt.docx")
	if _, _, err := runCommand(t, "build", mergedPath, "-o", outPath, "--source", docxPath); err != nil {
		t.Fatalf("build: %v", err)
	}

	rebuilt, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	pkg, err := docx.Open(rebuilt)
	if err != nil {
		t.Fatalf("open rebuilt docx: %v", err)
	}
	var texts []string
	for _, block := range pkg.Body.Blocks {
		if p, ok := block.(*docx.Paragraph); ok {
			texts = append(texts, p.Text())
		}
	}
	joined := strings.Join(texts, "\n")
	if !strings.Contains(joined, "Status Update") {
		t.Error("expected heading to survive the round trip")
	}
	if !strings.Contains(joined, "All systems degraded.") {
		t.Errorf("expected patched text in rebuilt document, got: %s", joined)
	}
}

func TestConvertCompactOutput(t *testing.T) {
	dir := t.TempDir()

	docxPath := filepath.Join(dir, "status.docx")
	if err := os.WriteFile(docxPath, fixtureDocx(t), 0o644); err != nil {
		t.Fatal(err)
	}

	jsonPath := filepath.Join(dir, "compact.json")
	if _, _, err := runCommand(t, "convert", docxPath, "-o", jsonPath, "--compact"); err != nil {
		t.Fatalf("convert --compact: %v", err)
	}
	t.Cleanup(func() { convertCompact = false })

	out, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "null") {
		t.Error("expected compact output to strip null fields")
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(config.ConfigPathEnv, cfgPath)

	if _, _, err := runCommand(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, _, err := runCommand(t, "config", "init"); err == nil {
		t.Error("second init should fail")
	}

	stdout, _, err := runCommand(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if strings.TrimSpace(stdout) != cfgPath {
		t.Errorf("expected path %s, got %s", cfgPath, strings.TrimSpace(stdout))
	}

	if _, _, err := runCommand(t, "config", "set", "default_provider", "openai"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	if _, _, err := runCommand(t, "config", "set", "default_provider", "nonexistent"); err == nil {
		t.Error("unknown provider should fail")
	}
	if _, _, err := runCommand(t, "config", "set", "generation.temperature", "2.5"); err == nil {
		t.Error("out-of-range temperature should fail")
	}

	stdout, _, err = runCommand(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(stdout, "default_provider: openai") {
		t.Errorf("expected updated default provider in output, got:\n%s", stdout)
	}
	if !strings.Contains(stdout, "${ANTHROPIC_API_KEY}") {
		t.Error("expected API key placeholder to stay unexpanded in show output")
	}
}

func TestConvertRejectsMissingFile(t *testing.T) {
	_, _, err := runCommand(t, "convert", filepath.Join(t.TempDir(), "nope.docx"))
	if err == nil {
		t.Error("expected error for missing input file")
	}
}
