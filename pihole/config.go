package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ConfigResponse holds the Pi-hole configuration tree. The tree's shape is
// defined by the server and changes between releases, so it stays a generic
// map here; typed views over well-known sections live in localdns.go.
type ConfigResponse struct {
	Config map[string]any `json:"config"`
	Took   float64        `json:"took"`
}

// Config retrieves the full configuration tree. Detailed adds per-key
// descriptions, allowed values and modification flags.
func (c *Client) Config(ctx context.Context, detailed bool) (*ConfigResponse, error) {
	return c.configGet(ctx, "config", detailed)
}

// ConfigSection retrieves one subtree of the configuration, addressed by its
// dotted path (e.g. "dns/upstreams").
func (c *Client) ConfigSection(ctx context.Context, element string, detailed bool) (*ConfigResponse, error) {
	if element == "" {
		return nil, fmt.Errorf("config element is required")
	}
	return c.configGet(ctx, "config/"+element, detailed)
}

func (c *Client) configGet(ctx context.Context, path string, detailed bool) (*ConfigResponse, error) {
	params := url.Values{}
	if detailed {
		params.Set("detailed", "true")
	}

	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: path, query: params})
	if err != nil {
		return nil, err
	}

	var resp ConfigResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &resp, nil
}

// SetConfig applies a partial configuration change. The changes map mirrors
// the configuration tree, e.g.
//
//	client.SetConfig(ctx, map[string]any{
//		"dns": map[string]any{"blockESNI": false},
//	})
func (c *Client) SetConfig(ctx context.Context, changes map[string]any) (*ConfigResponse, error) {
	if len(changes) == 0 {
		return nil, fmt.Errorf("at least one config change is required")
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPatch,
		path:   "config",
		body:   map[string]any{"config": changes},
	})
	if err != nil {
		return nil, err
	}

	var resp ConfigResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &resp, nil
}

// AddConfigItem appends a value to a configuration array element.
func (c *Client) AddConfigItem(ctx context.Context, element, value string) error {
	if element == "" || value == "" {
		return fmt.Errorf("config element and value are required")
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   fmt.Sprintf("config/%s/%s", element, url.PathEscape(value)),
	})
	return err
}

// DeleteConfigItem removes a value from a configuration array element.
func (c *Client) DeleteConfigItem(ctx context.Context, element, value string) error {
	if element == "" || value == "" {
		return fmt.Errorf("config element and value are required")
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   fmt.Sprintf("config/%s/%s", element, url.PathEscape(value)),
	})
	return err
}
