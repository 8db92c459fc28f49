package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ClientEntry is one managed client (IP, subnet, MAC or hostname) with its
// group assignments.
type ClientEntry struct {
	Client       string  `json:"client"`
	Name         *string `json:"name"`
	Comment      *string `json:"comment"`
	Groups       []int   `json:"groups"`
	ID           int     `json:"id"`
	DateAdded    int64   `json:"date_added"`
	DateModified int64   `json:"date_modified"`
}

// ClientsResponse holds client listings and mutation results.
type ClientsResponse struct {
	Clients   []ClientEntry `json:"clients"`
	Processed *Processed    `json:"processed"`
	Took      float64       `json:"took"`
}

// ClientOptions carries the optional attributes of a managed client.
type ClientOptions struct {
	Comment string
	Groups  []int
}

// ClientSuggestion is one unmanaged device Pi-hole has seen traffic from.
type ClientSuggestion struct {
	HWAddr    string  `json:"hwaddr"`
	MacVendor string  `json:"macVendor"`
	LastQuery int64   `json:"lastQuery"`
	Addresses *string `json:"addresses"`
	Names     *string `json:"names"`
}

// Clients retrieves all managed clients.
func (c *Client) Clients(ctx context.Context) (*ClientsResponse, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "clients"})
	if err != nil {
		return nil, err
	}

	var resp ClientsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse clients: %w", err)
	}
	return &resp, nil
}

// AddClient adds one managed client.
func (c *Client) AddClient(ctx context.Context, client string, opts *ClientOptions) (*ClientsResponse, error) {
	if client == "" {
		return nil, fmt.Errorf("client address is required")
	}

	payload := map[string]any{"client": client}
	if opts != nil {
		if opts.Comment != "" {
			payload["comment"] = opts.Comment
		}
		if opts.Groups != nil {
			payload["groups"] = opts.Groups
		}
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "clients",
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp ClientsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse clients: %w", err)
	}
	return &resp, nil
}

// UpdateClient replaces the attributes of a managed client.
func (c *Client) UpdateClient(ctx context.Context, client string, opts *ClientOptions) (*ClientsResponse, error) {
	if client == "" {
		return nil, fmt.Errorf("client address is required")
	}

	payload := map[string]any{}
	if opts != nil {
		if opts.Comment != "" {
			payload["comment"] = opts.Comment
		}
		if opts.Groups != nil {
			payload["groups"] = opts.Groups
		}
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   "clients/" + url.PathEscape(client),
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp ClientsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse clients: %w", err)
	}
	return &resp, nil
}

// DeleteClient removes one managed client.
func (c *Client) DeleteClient(ctx context.Context, client string) error {
	if client == "" {
		return fmt.Errorf("client address is required")
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "clients/" + url.PathEscape(client),
	})
	return err
}

// DeleteClients removes a batch of managed clients in one request.
func (c *Client) DeleteClients(ctx context.Context, clients []string) error {
	if len(clients) == 0 {
		return nil
	}

	refs := make([]map[string]string, 0, len(clients))
	for _, client := range clients {
		refs = append(refs, map[string]string{"item": client})
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "clients:batchDelete",
		body:   refs,
	})
	return err
}

// ClientSuggestions retrieves devices Pi-hole has seen that are not yet
// managed clients.
func (c *Client) ClientSuggestions(ctx context.Context) ([]ClientSuggestion, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "clients/_suggestions"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Clients []ClientSuggestion `json:"clients"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse client suggestions: %w", err)
	}
	return resp.Clients, nil
}
