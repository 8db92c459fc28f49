package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BlockingStatus reports whether DNS blocking is active and, when a timer is
// set, how many seconds remain until the state flips back.
type BlockingStatus struct {
	Blocking string   `json:"blocking"` // "enabled", "disabled", "failed", "unknown"
	Timer    *float64 `json:"timer"`
	Took     float64  `json:"took"`
}

// Enabled reports whether blocking is currently active.
func (b *BlockingStatus) Enabled() bool {
	return b.Blocking == "enabled"
}

// Blocking retrieves the current DNS blocking state.
func (c *Client) Blocking(ctx context.Context) (*BlockingStatus, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "dns/blocking"})
	if err != nil {
		return nil, err
	}

	var status BlockingStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse blocking status: %w", err)
	}
	return &status, nil
}

// SetBlocking enables or disables DNS blocking. A non-zero timer reverts the
// change after that duration; zero makes it permanent.
func (c *Client) SetBlocking(ctx context.Context, enabled bool, timer time.Duration) (*BlockingStatus, error) {
	payload := map[string]any{
		"blocking": enabled,
		"timer":    nil,
	}
	if timer > 0 {
		payload["timer"] = timer.Seconds()
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "dns/blocking",
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var status BlockingStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse blocking status: %w", err)
	}
	return &status, nil
}

// EnableBlocking turns DNS blocking on permanently.
func (c *Client) EnableBlocking(ctx context.Context) (*BlockingStatus, error) {
	return c.SetBlocking(ctx, true, 0)
}

// DisableBlocking turns DNS blocking off, optionally only for the given
// duration.
func (c *Client) DisableBlocking(ctx context.Context, timer time.Duration) (*BlockingStatus, error) {
	return c.SetBlocking(ctx, false, timer)
}
