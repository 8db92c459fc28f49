package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ActionResult reports the outcome of a maintenance action.
type ActionResult struct {
	Status string  `json:"status"`
	Took   float64 `json:"took"`
}

func (c *Client) action(ctx context.Context, name string) (*ActionResult, error) {
	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "action/" + name,
	})
	if err != nil {
		return nil, err
	}

	var result ActionResult
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("failed to parse action result: %w", err)
		}
	}
	return &result, nil
}

// UpdateGravity rebuilds the gravity database from the subscribed lists.
func (c *Client) UpdateGravity(ctx context.Context) (*ActionResult, error) {
	return c.action(ctx, "gravity")
}

// RestartDNS restarts the pihole-FTL resolver.
func (c *Client) RestartDNS(ctx context.Context) (*ActionResult, error) {
	return c.action(ctx, "restartdns")
}

// FlushLogs clears the DNS query log.
func (c *Client) FlushLogs(ctx context.Context) (*ActionResult, error) {
	return c.action(ctx, "flush/logs")
}

// FlushARP clears the network table built from ARP data.
func (c *Client) FlushARP(ctx context.Context) (*ActionResult, error) {
	return c.action(ctx, "flush/arp")
}
