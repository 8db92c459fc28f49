package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// ListType selects the allow or block side of subscribed lists.
type ListType string

const (
	ListAllow ListType = "allow"
	ListBlock ListType = "block"
)

func (t ListType) validate() error {
	switch t {
	case ListAllow, ListBlock, "":
		return nil
	}
	return fmt.Errorf("invalid list type %q (must be %q or %q)", t, ListAllow, ListBlock)
}

// List is one subscribed allow/block list.
type List struct {
	Address        string  `json:"address"`
	Type           string  `json:"type"`
	Comment        *string `json:"comment"`
	Groups         []int   `json:"groups"`
	Enabled        bool    `json:"enabled"`
	ID             int     `json:"id"`
	DateAdded      int64   `json:"date_added"`
	DateModified   int64   `json:"date_modified"`
	DateUpdated    int64   `json:"date_updated"`
	Number         int     `json:"number"`
	InvalidDomains int     `json:"invalid_domains"`
	ABPEntries     int     `json:"abp_entries"`
	Status         int     `json:"status"`
}

// ListsResponse holds list listings and mutation results.
type ListsResponse struct {
	Lists     []List     `json:"lists"`
	Processed *Processed `json:"processed"`
	Took      float64    `json:"took"`
}

// ListOptions carries the optional attributes of a subscribed list.
type ListOptions struct {
	Comment string
	Groups  []int
	Enabled *bool
}

// ListRef identifies one list for batch deletion.
type ListRef struct {
	Item string   `json:"item"`
	Type ListType `json:"type"`
}

// Lists retrieves the subscribed lists, optionally restricted to one type.
func (c *Client) Lists(ctx context.Context, typ ListType) (*ListsResponse, error) {
	if err := typ.validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	if typ != "" {
		params.Set("type", string(typ))
	}

	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "lists", query: params})
	if err != nil {
		return nil, err
	}

	var resp ListsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse lists: %w", err)
	}
	return &resp, nil
}

// AddList subscribes a single list. Shorthand for AddLists with a
// one-element slice; the request body shape is identical.
func (c *Client) AddList(ctx context.Context, address string, typ ListType, opts *ListOptions) (*ListsResponse, error) {
	return c.AddLists(ctx, []string{address}, typ, opts)
}

// AddLists subscribes a batch of lists in one request.
func (c *Client) AddLists(ctx context.Context, addresses []string, typ ListType, opts *ListOptions) (*ListsResponse, error) {
	if typ == "" {
		typ = ListBlock
	}
	if err := typ.validate(); err != nil {
		return nil, err
	}
	if len(addresses) == 0 {
		return nil, fmt.Errorf("at least one list address is required")
	}

	payload := map[string]any{
		"address": addresses,
		"type":    typ,
	}
	applyListOptions(payload, opts)

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "lists",
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp ListsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse lists: %w", err)
	}
	return &resp, nil
}

// UpdateList replaces the attributes of a subscribed list.
func (c *Client) UpdateList(ctx context.Context, address string, typ ListType, opts *ListOptions) (*ListsResponse, error) {
	if typ == "" {
		typ = ListBlock
	}
	if err := typ.validate(); err != nil {
		return nil, err
	}

	payload := map[string]any{"type": typ}
	applyListOptions(payload, opts)

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   "lists/" + url.PathEscape(address),
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp ListsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse lists: %w", err)
	}
	return &resp, nil
}

// DeleteList unsubscribes one list.
func (c *Client) DeleteList(ctx context.Context, address string, typ ListType) error {
	if err := typ.validate(); err != nil {
		return err
	}

	params := url.Values{}
	if typ != "" {
		params.Set("type", string(typ))
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "lists/" + url.PathEscape(address),
		query:  params,
	})
	return err
}

// DeleteLists unsubscribes a batch of lists in one request.
func (c *Client) DeleteLists(ctx context.Context, refs []ListRef) error {
	if len(refs) == 0 {
		return nil
	}
	for _, ref := range refs {
		if err := ref.Type.validate(); err != nil {
			return err
		}
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "lists:batchDelete",
		body:   refs,
	})
	return err
}

func applyListOptions(payload map[string]any, opts *ListOptions) {
	enabled := true
	if opts != nil {
		if opts.Comment != "" {
			payload["comment"] = opts.Comment
		}
		if opts.Groups != nil {
			payload["groups"] = opts.Groups
		}
		if opts.Enabled != nil {
			enabled = *opts.Enabled
		}
	}
	payload["enabled"] = enabled
}
