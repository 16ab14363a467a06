package cli

import (
	"fmt"
	"strings"

	"github.com/roboco-io/docx2json/internal/config"
	"github.com/roboco-io/docx2json/internal/editor"
	"github.com/roboco-io/docx2json/internal/llm"
)

// envKeyFor returns the API key environment variable for a provider.
func envKeyFor(providerName string) string {
	for _, p := range providers {
		if p.Name == providerName {
			return p.EnvKey
		}
	}
	return ""
}

// newEditor builds an editor from configuration plus command-line overrides.
// An empty providerName selects the configured default.
func newEditor(providerName, model string, maxTokens int, temperature float64) (*editor.Editor, string, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, "", err
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, "", err
	}

	if providerName == "" {
		providerName = cfg.DefaultProvider
	}
	pcfg, ok := cfg.GetProvider(providerName)
	if !ok {
		pcfg = &config.Provider{}
	}
	if model == "" {
		model = pcfg.Model
	}
	if maxTokens == 0 {
		maxTokens = pcfg.MaxTokens
	}
	if temperature == 0 {
		temperature = cfg.Generation.Temperature
	}

	apiKey := config.GetEnvOrDefault(envKeyFor(providerName), pcfg.APIKey)
	provider, err := llm.NewProvider(providerName, apiKey, model)
	if err != nil {
		return nil, "", fmt.Errorf("%w (available: %s)", err, strings.Join(llm.List(), ", "))
	}
	if err := provider.Validate(); err != nil {
		return nil, "", err
	}

	return editor.New(provider, maxTokens, temperature), providerName, nil
}
