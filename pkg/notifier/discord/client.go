// Package discord delivers state change notifications to Discord webhooks.
package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	logf "sigs.k8s.io/controller-runtime/pkg/log"
)

var log = logf.Log.WithName("discord")

// Message is the webhook payload.
type Message struct {
	Embeds []Embed `json:"embeds"`
}

// Embed is a single rich embed of a Message.
type Embed struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       int    `json:"color"`
	Timestamp   string `json:"timestamp"`
}

// NewStateChangeMessage builds the message for a monitor that transitioned
// from oldState to newState. Color is the color of newState.
func NewStateChangeMessage(monitorName, oldState, newState string, color int, at time.Time) *Message {
	return &Message{
		Embeds: []Embed{
			{
				Title:       fmt.Sprintf("Monitor %s is %s", monitorName, newState),
				Description: fmt.Sprintf("State changed from %s to %s", oldState, newState),
				Color:       color,
				Timestamp:   at.UTC().Format(time.RFC3339),
			},
		},
	}
}

// Client posts messages to Discord webhooks.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new *Client that uses httpClient for delivery.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{httpClient: httpClient}
}

// Send posts msg to webhookURL. Any non-2xx response is an error.
func (c *Client) Send(ctx context.Context, webhookURL string, msg *Message) error {
	buf, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal discord message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(buf))
	if err != nil {
		// The webhook URL is a secret, keep it out of the error.
		return errors.New("failed to build discord webhook request")
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(redact(err), "failed to post discord message")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("discord API returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	log.V(1).Info("discord message delivered", "status", resp.StatusCode)

	return nil
}

// redact strips the request URL from transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}

	return err
}
