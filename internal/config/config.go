package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	// Variant is a built-in variant name or a path to a variant file.
	Variant    string
	Passphrase string
	ShareURL   string

	TelegramToken  string
	TelegramChatID string
	GeminiAPIKey   string

	// DebugLog is a file path; empty disables logging.
	DebugLog string
}

const DefaultVariant = "runway"

// LoadConfig loads the configuration from environment variables, reading
// the given .env files first (".env" when none are named). Missing .env
// files and missing optional values are not errors.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		Variant:        os.Getenv("PROPOSAL_VARIANT"),
		Passphrase:     os.Getenv("PROPOSAL_PASSPHRASE"),
		ShareURL:       os.Getenv("PROPOSAL_SHARE_URL"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DebugLog:       os.Getenv("PROPOSAL_DEBUG_LOG"),
	}
	if cfg.Variant == "" {
		cfg.Variant = DefaultVariant
	}
	return cfg, nil
}

// NotifyEnabled reports whether both Telegram credentials are present.
func (c *Config) NotifyEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != ""
}
