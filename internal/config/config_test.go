package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("expected default provider 'anthropic', got %s", cfg.DefaultProvider)
	}

	if len(cfg.Providers) != 3 {
		t.Errorf("expected 3 providers, got %d", len(cfg.Providers))
	}

	openai, ok := cfg.Providers["openai"]
	if !ok {
		t.Error("expected 'openai' provider in config")
	}
	if openai.Model != "gpt-4o" {
		t.Errorf("expected OpenAI model 'gpt-4o', got %s", openai.Model)
	}

	anthropic, ok := cfg.Providers["anthropic"]
	if !ok {
		t.Error("expected 'anthropic' provider in config")
	}
	if anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected Anthropic model 'claude-sonnet-4-20250514', got %s", anthropic.Model)
	}
}

func TestConfig_GetProvider(t *testing.T) {
	cfg := DefaultConfig()

	p, ok := cfg.GetProvider("gemini")
	if !ok {
		t.Fatal("expected to find 'gemini' provider")
	}
	if p.Model != "gemini-2.0-flash" {
		t.Errorf("expected model 'gemini-2.0-flash', got %s", p.Model)
	}

	_, ok = cfg.GetProvider("nonexistent")
	if ok {
		t.Error("expected not to find 'nonexistent' provider")
	}
}

func TestConfig_GetDefaultProvider(t *testing.T) {
	cfg := DefaultConfig()

	p, ok := cfg.GetDefaultProvider()
	if !ok {
		t.Fatal("expected to find default provider")
	}
	if p.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default provider model 'claude-sonnet-4-20250514', got %s", p.Model)
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := NewLoaderWithPath(configPath)

	cfg := DefaultConfig()
	cfg.DefaultProvider = "openai"

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !loader.Exists() {
		t.Fatal("config file should exist after save")
	}

	loaded, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.DefaultProvider != "openai" {
		t.Errorf("expected 'openai', got %s", loaded.DefaultProvider)
	}
	if loaded.Generation.Temperature != 0.3 {
		t.Errorf("temperature = %v", loaded.Generation.Temperature)
	}
}

func TestLoader_LoadMissingReturnsDefault(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "missing.yaml"))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultProvider != "anthropic" {
		t.Errorf("expected default config, got provider %s", cfg.DefaultProvider)
	}
}

func TestLoader_ExpandsEnvVars(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `default_provider: openai
providers:
  openai:
    api_key: ${DOCX2JSON_TEST_KEY}
    model: gpt-4o
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DOCX2JSON_TEST_KEY", "sk-expanded")

	loader := NewLoaderWithPath(configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, _ := cfg.GetProvider("openai")
	if p.APIKey != "sk-expanded" {
		t.Errorf("api key = %q, want expanded value", p.APIKey)
	}

	raw, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	rp, _ := raw.GetProvider("openai")
	if rp.APIKey != "${DOCX2JSON_TEST_KEY}" {
		t.Errorf("raw api key = %q, want placeholder", rp.APIKey)
	}
}

func TestLoader_InitRefusesOverwrite(t *testing.T) {
	loader := NewLoaderWithPath(filepath.Join(t.TempDir(), "config.yaml"))
	if err := loader.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := loader.Init(); err == nil {
		t.Error("second init should fail")
	}
}

func TestNewLoader_HonorsPathOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "alt", "config.yaml")
	t.Setenv(ConfigPathEnv, override)

	loader, err := NewLoader()
	if err != nil {
		t.Fatalf("new loader: %v", err)
	}
	if loader.ConfigPath() != override {
		t.Errorf("expected config path %s, got %s", override, loader.ConfigPath())
	}
}
