package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSplitReport(t *testing.T) {
	if got := splitReport("short", 100); len(got) != 1 || got[0] != "short" {
		t.Errorf("short text altered: %v", got)
	}

	// Three 10-byte lines against a 25-byte limit: the split must land on
	// the line boundary, never inside a card line.
	text := strings.Repeat("aaaaaaaaa\n", 3)
	chunks := splitReport(text, 25)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %q", len(chunks), chunks)
	}
	for i, c := range chunks {
		if len(c) > 25 {
			t.Errorf("chunk %d exceeds limit: %d bytes", i, len(c))
		}
		for _, line := range strings.Split(strings.TrimRight(c, "\n"), "\n") {
			if line != "aaaaaaaaa" {
				t.Errorf("chunk %d has a cut line %q", i, line)
			}
		}
	}

	// No newline available: a hard cut at the limit is the fallback.
	hard := splitReport(strings.Repeat("x", 30), 10)
	if len(hard) != 3 {
		t.Errorf("expected 3 hard chunks, got %d", len(hard))
	}
}

func testNotifier(srv *httptest.Server) *TelegramNotifier {
	n := NewTelegramNotifier("test-token", "42", "")
	n.apiBase = srv.URL + "/bot"
	return n
}

func TestSend_ChunksLongReport(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if payload["chat_id"] != "42" || payload["parse_mode"] != "HTML" {
			t.Errorf("unexpected payload fields: %v", payload)
		}
		texts = append(texts, payload["text"].(string))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	long := strings.Repeat("600519 贵州茅台 ¥1700.00\n", 400)
	if err := testNotifier(srv).Send(long); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(texts) < 2 {
		t.Fatalf("expected the report split across requests, got %d", len(texts))
	}
	for i, text := range texts {
		if len(text) > maxMessageLen {
			t.Errorf("request %d exceeds message limit: %d bytes", i, len(text))
		}
	}
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	if err := testNotifier(srv).SendWithRetry(context.Background(), "报告", 2); err != nil {
		t.Fatalf("SendWithRetry: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestSendWithRetry_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := testNotifier(srv).SendWithRetry(ctx, "报告", 3)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
