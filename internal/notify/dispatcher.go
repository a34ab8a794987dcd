// Package notify delivers chat messages through the messaging platform's
// push/multicast/reply endpoints. Delivery is best effort everywhere: a
// submission or review that already committed its rows must not fail
// because a notification didn't go out, so callers log and drop errors.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Message is one platform message object ({"type":"text",...} and friends).
type Message map[string]any

// Text builds a plain text message.
func Text(text string) Message { return Message{"type": "text", "text": text} }

type Dispatcher struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewDispatcher targets a messaging API base URL (e.g. the platform's
// /v2/bot root) with a channel access token. An empty token disables
// delivery; every send becomes a silent no-op so development setups work
// without a channel.
func NewDispatcher(baseURL, token string) *Dispatcher {
	return &Dispatcher{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *Dispatcher) Enabled() bool { return d.token != "" }

// Push sends messages to a single recipient.
func (d *Dispatcher) Push(ctx context.Context, to string, msgs ...Message) error {
	return d.post(ctx, "/message/push", map[string]any{"to": to, "messages": msgs})
}

// Multicast sends messages to several recipients in one call.
func (d *Dispatcher) Multicast(ctx context.Context, to []string, msgs ...Message) error {
	if len(to) == 0 {
		return nil
	}
	return d.post(ctx, "/message/multicast", map[string]any{"to": to, "messages": msgs})
}

// Reply answers an inbound webhook event by its reply token.
func (d *Dispatcher) Reply(ctx context.Context, replyToken string, msgs ...Message) error {
	return d.post(ctx, "/message/reply", map[string]any{"replyToken": replyToken, "messages": msgs})
}

func (d *Dispatcher) post(ctx context.Context, path string, payload any) error {
	if !d.Enabled() {
		return nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+d.token)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("notify: %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: %s: status %d: %s", path, resp.StatusCode, detail)
	}
	return nil
}
