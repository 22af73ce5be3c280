package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	telegramAPIBase = "https://api.telegram.org/bot"

	// Telegram rejects messages above this length. A scan report with many
	// result cards can exceed it, so Send splits on line boundaries.
	maxMessageLen = 4096
)

// TelegramNotifier delivers scan reports and command replies through the
// Telegram Bot API.
type TelegramNotifier struct {
	token     string
	chatID    string
	apiBase   string
	client    *http.Client
	transport *http.Transport
}

// NewTelegramNotifier creates a notifier with optional proxy support.
func NewTelegramNotifier(botToken, chatID, proxyURL string) *TelegramNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &TelegramNotifier{
		token:     botToken,
		chatID:    chatID,
		apiBase:   telegramAPIBase,
		transport: transport,
		client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// call posts one Bot API method with a JSON payload and optionally decodes
// the response envelope into out.
func (t *TelegramNotifier) call(ctx context.Context, client *http.Client, method string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.apiBase+t.token+"/"+method, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode, string(detail))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", method, err)
		}
	}
	return nil
}

// Send delivers one message to the configured chat, splitting it into
// chunks when it exceeds the Bot API length limit.
func (t *TelegramNotifier) Send(text string) error {
	for _, chunk := range splitReport(text, maxMessageLen) {
		err := t.call(context.Background(), t.client, "sendMessage", map[string]any{
			"chat_id":                  t.chatID,
			"text":                     chunk,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		}, nil)
		if err != nil {
			return err
		}
	}
	return nil
}

// splitReport cuts text into pieces no longer than limit, preferring line
// boundaries so a result card is never cut mid-line.
func splitReport(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndexByte(text[:limit], '\n')
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// SendWithRetry retries transient delivery failures with doubling backoff.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	backoff := time.Second
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[WARN] telegram delivery retry %d/%d in %v: %v", attempt, maxRetries, backoff, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		if lastErr = t.Send(text); lastErr == nil {
			return nil
		}
	}
	return fmt.Errorf("telegram delivery failed after %d attempts: %w", maxRetries+1, lastErr)
}
