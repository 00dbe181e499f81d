package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/proposal-game/internal/engine"
	"github.com/tatianab/proposal-game/internal/interact"
	"github.com/tatianab/proposal-game/internal/models"
	"github.com/tatianab/proposal-game/internal/narrator"
)

const (
	frame       = 33 * time.Millisecond
	turnStep    = 0.12
	narrateWait = 20 * time.Second
)

// Factory builds the engine for a fresh playthrough. It is called once at
// start and again after every decline countdown.
type Factory func() (*engine.Engine, error)

// Options wires a front end.
type Options struct {
	NewEngine Factory
	// Narrator is optional; without it the static celebration text stays.
	Narrator narrator.Composer
	Logger   *log.Logger
}

type model struct {
	newEngine Factory
	engine    *engine.Engine
	narrator  narrator.Composer
	logger    *log.Logger

	keys      keyMap
	help      help.Model
	textInput textinput.Model
	viewport  viewport.Model

	lastTick  time.Time
	gameLog   []string
	seen      int
	narrating bool
	err       error
	width     int
	height    int
}

type tickMsg time.Time

type narratedMsg struct {
	engine      *engine.Engine
	celebration narrator.Celebration
	err         error
}

type copiedMsg struct {
	err error
}

func NewModel(opts Options) (model, error) {
	if opts.NewEngine == nil {
		return model{}, fmt.Errorf("tui: no engine factory")
	}
	eng, err := opts.NewEngine()
	if err != nil {
		return model{}, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	ti := textinput.New()
	ti.Placeholder = "passphrase"
	ti.EchoMode = textinput.EchoPassword
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 30

	return model{
		newEngine: opts.NewEngine,
		engine:    eng,
		narrator:  opts.Narrator,
		logger:    logger,
		keys:      defaultKeys(),
		help:      help.New(),
		textInput: ti,
		viewport:  viewport.New(40, 10),
	}, nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(frame, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewport.Width = sideWidth(msg.Width)
		m.viewport.Height = max(msg.Height-hudHeight-4, 3)
		m.viewport.SetContent(strings.Join(m.gameLog, "\n"))
		m.viewport.GotoBottom()
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.engine.Tick(now.Sub(m.lastTick).Seconds())
		}
		m.lastTick = now
		cmds := []tea.Cmd{tick()}
		if m.engine.NeedsReload() {
			if err := m.reload(); err != nil {
				m.err = err
				return m, nil
			}
		}
		m.syncLog()
		if c := m.maybeNarrate(); c != nil {
			cmds = append(cmds, c)
		}
		return m, tea.Batch(cmds...)

	case narratedMsg:
		if msg.engine != m.engine {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Printf("tui: narrator: %v", msg.err)
			return m, nil
		}
		m.engine.SetCelebration(msg.celebration)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.logger.Printf("tui: clipboard: %v", msg.err)
			m.engine.Toast("Could not reach the clipboard")
			return m, nil
		}
		m.engine.Toast("Copied to clipboard!")
		return m, nil
	}

	if m.engine.Snapshot().Overlay == engine.PassphraseOverlay {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	eng := m.engine
	switch eng.Snapshot().Overlay {
	case engine.SplashOverlay, engine.RejectionOverlay:
		return m, nil

	case engine.PassphraseOverlay:
		if key.Matches(msg, m.keys.Submit) {
			if eng.SubmitPassphrase(m.textInput.Value()) {
				m.textInput.Reset()
				m.textInput.Blur()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd

	case engine.EmailOverlay:
		switch {
		case key.Matches(msg, m.keys.Accept):
			eng.AcceptInvite()
		case key.Matches(msg, m.keys.Decline):
			eng.DeclineInvite()
		}
		return m, nil

	case engine.ShareOverlay:
		switch {
		case key.Matches(msg, m.keys.Copy):
			return m, copyText(eng.ShareText())
		case key.Matches(msg, m.keys.Close):
			eng.CloseOverlay()
		}
		return m, nil

	case engine.GuidelinesOverlay, engine.CelebrationOverlay:
		if key.Matches(msg, m.keys.Close) {
			eng.CloseOverlay()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		eng.Move(0, -1)
	case key.Matches(msg, m.keys.Down):
		eng.Move(0, 1)
	case key.Matches(msg, m.keys.Left):
		eng.Move(-1, 0)
	case key.Matches(msg, m.keys.Right):
		eng.Move(1, 0)
	case key.Matches(msg, m.keys.AimLeft):
		eng.Turn(turnStep)
	case key.Matches(msg, m.keys.AimRight):
		eng.Turn(-turnStep)
	case key.Matches(msg, m.keys.Primary):
		eng.Interact(interact.Primary)
	case key.Matches(msg, m.keys.Secondary):
		eng.Interact(interact.Secondary)
	case key.Matches(msg, m.keys.Tertiary):
		eng.Interact(interact.Tertiary)
	case key.Matches(msg, m.keys.Pet):
		eng.Interact(interact.Pet)
	case key.Matches(msg, m.keys.Strike):
		eng.Strike()
	}
	return m, nil
}

// reload swaps in a fresh engine after the decline countdown.
func (m *model) reload() error {
	eng, err := m.newEngine()
	if err != nil {
		return fmt.Errorf("tui: reloading: %w", err)
	}
	m.engine = eng
	m.seen = 0
	m.narrating = false
	m.gameLog = append(m.gameLog, "--- reloaded ---")
	m.textInput.Reset()
	m.textInput.Focus()
	return nil
}

// syncLog appends the engine events the viewport has not shown yet.
func (m *model) syncLog() {
	events := m.engine.Events()
	if len(events) == m.seen {
		return
	}
	m.gameLog = append(m.gameLog, events[m.seen:]...)
	m.seen = len(events)
	m.viewport.SetContent(strings.Join(m.gameLog, "\n"))
	m.viewport.GotoBottom()
}

func (m *model) maybeNarrate() tea.Cmd {
	if m.narrator == nil || m.narrating || !m.engine.GameState().Has(models.FlagCelebrated) {
		return nil
	}
	m.narrating = true
	eng, composer, brief := m.engine, m.narrator, m.engine.Brief()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), narrateWait)
		defer cancel()
		c, err := composer.Celebration(ctx, brief)
		return narratedMsg{engine: eng, celebration: c, err: err}
	}
}

func copyText(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func Run(opts Options) error {
	m, err := NewModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
