package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != "openai" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Server.Addr() != "0.0.0.0:5001" {
		t.Errorf("addr = %q", cfg.Server.Addr())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Server.Port != 5001 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`provider: anthropic
model: claude-sonnet-4-20250514
server:
  port: 8080
log:
  level: debug
providers:
  anthropic:
    api_key: file-key
`)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "anthropic" || cfg.Model != "claude-sonnet-4-20250514" {
		t.Errorf("provider/model = %q/%q", cfg.Provider, cfg.Model)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.GetProviderConfig("anthropic").APIKey != "file-key" {
		t.Errorf("api key = %q", cfg.GetProviderConfig("anthropic").APIKey)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml at all ["), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("provider: openai\nserver:\n  port: 8080\n"), 0600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("LEXDRAFT_PROVIDER", "deepseek")
	t.Setenv("PORT", "9000")
	t.Setenv("LLM_API_KEY", "env-key")
	t.Setenv("LLM_BASE_URL", "https://api.deepseek.com")
	t.Setenv("LEXDRAFT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != "deepseek" {
		t.Errorf("provider = %q", cfg.Provider)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Generic credentials attach to the active provider.
	pc := cfg.GetProviderConfig("deepseek")
	if pc.APIKey != "env-key" || pc.BaseURL != "https://api.deepseek.com" {
		t.Errorf("provider config = %+v", pc)
	}
}

func TestLoad_ProviderKeyEnvDoesNotClobberFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("providers:\n  openai:\n    api_key: file-key\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.GetProviderConfig("openai").APIKey; got != "file-key" {
		t.Errorf("api key = %q, want file value to win over the vendor fallback", got)
	}
}

func TestGetProviderConfig_Unknown(t *testing.T) {
	cfg := DefaultConfig()
	pc := cfg.GetProviderConfig("nope")
	if pc == nil || pc.APIKey != "" {
		t.Errorf("unknown provider config = %+v", pc)
	}
}
