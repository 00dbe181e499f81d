package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestNewWithoutCredentialsIsNop(t *testing.T) {
	tests := []struct{ token, chat string }{
		{"", ""},
		{"token", ""},
		{"", "42"},
	}
	for _, tt := range tests {
		if _, ok := New(tt.token, tt.chat).(Nop); !ok {
			t.Errorf("New(%q, %q) is not Nop", tt.token, tt.chat)
		}
	}
	if _, ok := New("token", "42").(*Telegram); !ok {
		t.Error("New with credentials did not return Telegram")
	}
}

func TestTelegramPostsMessage(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
		got   []sendMessage
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m sendMessage
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			t.Errorf("decode: %v", err)
		}
		mu.Lock()
		paths = append(paths, r.URL.Path)
		got = append(got, m)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tg := NewTelegram("secret", "42", WithBaseURL(srv.URL))
	tg.Notify(context.Background(), "Entered the runway!!")
	tg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("server got %d messages", len(got))
	}
	if paths[0] != "/botsecret/sendMessage" {
		t.Errorf("path = %q", paths[0])
	}
	if got[0].ChatID != "42" || got[0].Text != "Entered the runway!!" {
		t.Errorf("message = %+v", got[0])
	}
}

func TestTelegramSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	var buf bytes.Buffer
	tg := NewTelegram("bad", "42", WithBaseURL(srv.URL), WithLogger(log.New(&buf, "", 0)))
	tg.Notify(context.Background(), "hello")
	tg.Wait()

	if !strings.Contains(buf.String(), "401") {
		t.Fatalf("failure not logged: %q", buf.String())
	}
}

func TestRecorder(t *testing.T) {
	var r Recorder
	var n Notifier = &r
	n.Notify(context.Background(), "a")
	n.Notify(context.Background(), "b")
	if got := r.Messages(); len(got) != 2 || got[1] != "b" {
		t.Fatalf("Messages() = %v", got)
	}
}
