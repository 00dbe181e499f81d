package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/proposal-game/internal/config"
	"github.com/tatianab/proposal-game/internal/engine"
	"github.com/tatianab/proposal-game/internal/narrator"
	"github.com/tatianab/proposal-game/internal/notify"
	"github.com/tatianab/proposal-game/internal/variant"
)

// Start runs the game with configuration from the environment.
func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	return Launch(cfg)
}

// Launch wires the variant, notifier and narrator described by cfg and runs
// the terminal front end until the player quits.
func Launch(cfg *config.Config) error {
	logger := log.New(io.Discard, "", 0)
	if cfg.DebugLog != "" {
		f, err := tea.LogToFile(cfg.DebugLog, "proposal")
		if err != nil {
			return fmt.Errorf("opening debug log: %w", err)
		}
		defer f.Close()
		logger = log.Default()
	}

	v, err := variant.Resolve(cfg.Variant)
	if err != nil {
		return err
	}
	logger.Printf("tui: variant %q", v.Name)

	ctx := context.Background()
	notifier := notify.New(cfg.TelegramToken, cfg.TelegramChatID, notify.WithLogger(logger))
	if t, ok := notifier.(*notify.Telegram); ok {
		defer t.Wait()
	}

	opts := Options{Logger: logger}
	if cfg.GeminiAPIKey != "" {
		n, err := narrator.New(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Printf("tui: narrator disabled: %v", err)
		} else {
			defer n.Close()
			opts.Narrator = n
		}
	}

	opts.NewEngine = func() (*engine.Engine, error) {
		return engine.New(ctx, v,
			engine.WithLogger(logger),
			engine.WithNotifier(notifier),
			engine.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
			engine.WithPassphrase(cfg.Passphrase),
			engine.WithShareURL(cfg.ShareURL),
		)
	}
	return Run(opts)
}
