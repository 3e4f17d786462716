package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "DeepSeek")
	t.Setenv("DEEPSEEK_API_KEY", "test-key")
	t.Setenv("GATEWAY_TIMEOUT", "30")
	t.Setenv("PARALLEL_ANALYSTS", "true")

	cfg := DefaultConfig()
	if cfg.LLMProvider != "deepseek" {
		t.Errorf("expected provider deepseek, got %q", cfg.LLMProvider)
	}
	if cfg.DeepSeekAPIKey != "test-key" {
		t.Errorf("expected deepseek key to be set")
	}
	if cfg.GatewayTimeout != 30 {
		t.Errorf("expected gateway timeout 30, got %d", cfg.GatewayTimeout)
	}
	if !cfg.ParallelAnalysts {
		t.Error("expected parallel analysts enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsMissingKey(t *testing.T) {
	cfg := &Config{LLMProvider: "openai"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing OpenAI key")
	}

	cfg = &Config{LLMProvider: "bogus"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{
		ResultsDir:   filepath.Join(dir, "results"),
		DataDir:      filepath.Join(dir, "data"),
		DataCacheDir: filepath.Join(dir, "data", "cache"),
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, d := range []string{cfg.ResultsDir, cfg.DataDir, cfg.DataCacheDir} {
		if _, err := os.Stat(d); err != nil {
			t.Errorf("directory %s not created: %v", d, err)
		}
	}
}
