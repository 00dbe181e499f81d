package config

import (
	"os"
	"path/filepath"
	"testing"
)

var keys = []string{
	"PROPOSAL_VARIANT",
	"PROPOSAL_PASSPHRASE",
	"PROPOSAL_SHARE_URL",
	"TELEGRAM_BOT_TOKEN",
	"TELEGRAM_CHAT_ID",
	"GEMINI_API_KEY",
	"PROPOSAL_DEBUG_LOG",
}

// clearEnv blanks every key for the test; godotenv never overrides a set
// variable, so unset ones are restored by t.Setenv's cleanup.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Variant != DefaultVariant {
		t.Errorf("Variant = %q", cfg.Variant)
	}
	if cfg.NotifyEnabled() {
		t.Error("notify enabled without credentials")
	}
	if cfg.GeminiAPIKey != "" || cfg.DebugLog != "" {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROPOSAL_VARIANT", "range")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Variant != "range" || !cfg.NotifyEnabled() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfigFromDotEnv(t *testing.T) {
	clearEnv(t)
	file := filepath.Join(t.TempDir(), "test.env")
	data := "PROPOSAL_PASSPHRASE=\"open sesame\"\nGEMINI_API_KEY=abc\n"
	if err := os.WriteFile(file, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := LoadConfig(file)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Passphrase != "open sesame" {
		t.Errorf("Passphrase = %q", cfg.Passphrase)
	}
	if cfg.GeminiAPIKey != "from-env" {
		t.Errorf("GeminiAPIKey = %q, the environment should win over .env", cfg.GeminiAPIKey)
	}
}
