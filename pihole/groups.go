package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Group is one client/domain group.
type Group struct {
	Name         string  `json:"name"`
	Comment      *string `json:"comment"`
	Enabled      bool    `json:"enabled"`
	ID           int     `json:"id"`
	DateAdded    int64   `json:"date_added"`
	DateModified int64   `json:"date_modified"`
}

// GroupsResponse holds group listings and mutation results.
type GroupsResponse struct {
	Groups    []Group    `json:"groups"`
	Processed *Processed `json:"processed"`
	Took      float64    `json:"took"`
}

// GroupOptions carries the optional attributes of a group.
type GroupOptions struct {
	Comment string
	Enabled *bool
}

// Groups retrieves all groups.
func (c *Client) Groups(ctx context.Context) (*GroupsResponse, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "groups"})
	if err != nil {
		return nil, err
	}

	var resp GroupsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse groups: %w", err)
	}
	return &resp, nil
}

// AddGroup creates a new group.
func (c *Client) AddGroup(ctx context.Context, name string, opts *GroupOptions) (*GroupsResponse, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}

	payload := map[string]any{"name": name}
	enabled := true
	if opts != nil {
		if opts.Comment != "" {
			payload["comment"] = opts.Comment
		}
		if opts.Enabled != nil {
			enabled = *opts.Enabled
		}
	}
	payload["enabled"] = enabled

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "groups",
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp GroupsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse groups: %w", err)
	}
	return &resp, nil
}

// UpdateGroup replaces the attributes of a group, optionally renaming it.
func (c *Client) UpdateGroup(ctx context.Context, name, newName string, opts *GroupOptions) (*GroupsResponse, error) {
	if name == "" {
		return nil, fmt.Errorf("group name is required")
	}
	if newName == "" {
		newName = name
	}

	payload := map[string]any{"name": newName}
	enabled := true
	if opts != nil {
		if opts.Comment != "" {
			payload["comment"] = opts.Comment
		}
		if opts.Enabled != nil {
			enabled = *opts.Enabled
		}
	}
	payload["enabled"] = enabled

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   "groups/" + url.PathEscape(name),
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp GroupsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse groups: %w", err)
	}
	return &resp, nil
}

// DeleteGroup removes one group.
func (c *Client) DeleteGroup(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("group name is required")
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "groups/" + url.PathEscape(name),
	})
	return err
}

// DeleteGroups removes a batch of groups in one request.
func (c *Client) DeleteGroups(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	refs := make([]map[string]string, 0, len(names))
	for _, name := range names {
		refs = append(refs, map[string]string{"item": name})
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "groups:batchDelete",
		body:   refs,
	})
	return err
}
