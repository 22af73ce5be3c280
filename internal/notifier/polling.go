package notifier

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// CommandHandler turns one user command into a reply. An empty reply sends
// nothing back.
type CommandHandler func(command string) string

type chatUpdate struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		Text string `json:"text"`
		Chat struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// StartPolling long-polls getUpdates and routes commands through handler.
// Only the configured chat is answered; anyone else messaging the bot is
// ignored. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	ownChat, _ := strconv.ParseInt(t.chatID, 10, 64)

	// Separate client: the timeout must outlast the server-side long poll,
	// and the proxy still applies.
	pollClient := &http.Client{
		Timeout:   40 * time.Second,
		Transport: t.transport,
	}

	var offset int64
	for ctx.Err() == nil {
		updates, err := t.fetchUpdates(ctx, pollClient, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("[WARN] telegram poll: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil || u.Message.Text == "" {
				continue
			}
			if ownChat != 0 && u.Message.Chat.ID != ownChat {
				log.Printf("[WARN] ignoring command from unknown chat %d", u.Message.Chat.ID)
				continue
			}
			cmd := strings.TrimSpace(u.Message.Text)
			log.Printf("[INFO] command received: %s", cmd)
			if reply := handler(cmd); reply != "" {
				if err := t.Send(reply); err != nil {
					log.Printf("[ERROR] command reply: %v", err)
				}
			}
		}
	}
	log.Println("[INFO] telegram polling stopped")
}

// fetchUpdates issues one long-poll getUpdates call.
func (t *TelegramNotifier) fetchUpdates(ctx context.Context, client *http.Client, offset int64) ([]chatUpdate, error) {
	var envelope struct {
		OK     bool         `json:"ok"`
		Result []chatUpdate `json:"result"`
	}
	err := t.call(ctx, client, "getUpdates", map[string]any{
		"offset":          offset,
		"timeout":         30,
		"allowed_updates": []string{"message"},
	}, &envelope)
	if err != nil {
		return nil, err
	}
	if !envelope.OK {
		return nil, fmt.Errorf("getUpdates rejected")
	}
	return envelope.Result, nil
}
