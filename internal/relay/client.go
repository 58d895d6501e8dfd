// Package relay forwards control snapshots to the actuator over HTTP.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/frudas24/rcpad/internal/session"
)

// DefaultTimeout bounds one actuator request.
const DefaultTimeout = 3 * time.Second

const maxReplyBytes = 64 << 10

// StatusError reports a non-2xx actuator reply.
type StatusError struct {
	Code int
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("actuator returned %d", e.Code)
	}
	return fmt.Sprintf("actuator returned %d: %s", e.Code, e.Body)
}

// Client posts control snapshots to an actuator URL.
type Client struct {
	http *http.Client
}

// NewClient returns a client with a fixed per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Send posts c as JSON to target and returns the actuator's reply body.
func (c *Client) Send(ctx context.Context, target string, controls session.Controls) (string, error) {
	body, err := json.Marshal(controls)
	if err != nil {
		return "", fmt.Errorf("encode controls: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}
	reply := strings.TrimSpace(string(data))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, Body: reply}
	}
	return reply, nil
}
