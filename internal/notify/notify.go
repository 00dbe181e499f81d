// Package notify sends fire-and-forget progress messages to the person who
// set the game up.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// Notifier sends one line of text. Implementations must not block the caller
// and must never surface delivery failures.
type Notifier interface {
	Notify(ctx context.Context, text string)
}

// Nop drops every message.
type Nop struct{}

func (Nop) Notify(context.Context, string) {}

const defaultBaseURL = "https://api.telegram.org"

// Telegram posts messages through the Bot API.
type Telegram struct {
	token   string
	chatID  string
	baseURL string
	client  *http.Client
	logger  *log.Logger
	wg      sync.WaitGroup
}

type Option func(*Telegram)

// WithBaseURL points the notifier at another API host.
func WithBaseURL(u string) Option {
	return func(t *Telegram) { t.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(t *Telegram) {
		if c != nil {
			t.client = c
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(t *Telegram) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns a Telegram notifier, or Nop when either credential is missing.
func New(token, chatID string, opts ...Option) Notifier {
	if token == "" || chatID == "" {
		return Nop{}
	}
	return NewTelegram(token, chatID, opts...)
}

func NewTelegram(token, chatID string, opts ...Option) *Telegram {
	t := &Telegram{
		token:   token,
		chatID:  chatID,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  log.New(io.Discard, "", 0),
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

type sendMessage struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Notify starts the request in the background and returns immediately.
func (t *Telegram) Notify(ctx context.Context, text string) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		if err := t.send(ctx, text); err != nil {
			t.logger.Printf("notify: %v", err)
		}
	}()
}

func (t *Telegram) send(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessage{ChatID: t.chatID, Text: text})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sending message: status %s", resp.Status)
	}
	return nil
}

// Wait blocks until every message started so far has finished.
func (t *Telegram) Wait() {
	t.wg.Wait()
}

// Recorder keeps every message in memory. It is meant for tests and the
// headless simulation.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

func (r *Recorder) Notify(_ context.Context, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
}

func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}
