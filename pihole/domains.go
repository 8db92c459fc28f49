package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DomainType selects the allow or deny side of domain management.
type DomainType string

// DomainKind selects exact or regex matching for a managed domain.
type DomainKind string

const (
	DomainAllow DomainType = "allow"
	DomainDeny  DomainType = "deny"

	DomainExact DomainKind = "exact"
	DomainRegex DomainKind = "regex"
)

func (t DomainType) validate() error {
	switch t {
	case DomainAllow, DomainDeny:
		return nil
	}
	return fmt.Errorf("invalid domain type %q (must be %q or %q)", t, DomainAllow, DomainDeny)
}

func (k DomainKind) validate() error {
	switch k {
	case DomainExact, DomainRegex:
		return nil
	}
	return fmt.Errorf("invalid domain kind %q (must be %q or %q)", k, DomainExact, DomainRegex)
}

// Domain is one managed allow/deny entry.
type Domain struct {
	Domain       string  `json:"domain"`
	Unicode      string  `json:"unicode"`
	Type         string  `json:"type"`
	Kind         string  `json:"kind"`
	Comment      *string `json:"comment"`
	Groups       []int   `json:"groups"`
	Enabled      bool    `json:"enabled"`
	ID           int     `json:"id"`
	DateAdded    int64   `json:"date_added"`
	DateModified int64   `json:"date_modified"`
}

// Processed reports, per item of a batch mutation, what the server accepted
// and what it rejected. Rejections here are data, not faults: the request as
// a whole succeeded.
type Processed struct {
	Success []struct {
		Item string `json:"item"`
	} `json:"success"`
	Errors []struct {
		Item  string `json:"item"`
		Error string `json:"error"`
	} `json:"errors"`
}

// DomainsResponse holds domain listings and mutation results.
type DomainsResponse struct {
	Domains   []Domain   `json:"domains"`
	Processed *Processed `json:"processed"`
	Took      float64    `json:"took"`
}

// DomainOptions carries the optional attributes of a domain entry.
type DomainOptions struct {
	Comment string
	Groups  []int
	// Enabled defaults to true when nil.
	Enabled *bool
}

// DomainRef identifies one domain entry for batch deletion.
type DomainRef struct {
	Item string     `json:"item"`
	Type DomainType `json:"type"`
	Kind DomainKind `json:"kind"`
}

func domainPath(typ DomainType, kind DomainKind, domain string) string {
	p := fmt.Sprintf("domains/%s/%s", typ, kind)
	if domain != "" {
		p += "/" + url.PathEscape(domain)
	}
	return p
}

// Domains lists the managed domains of one type and kind.
func (c *Client) Domains(ctx context.Context, typ DomainType, kind DomainKind) (*DomainsResponse, error) {
	if err := typ.validate(); err != nil {
		return nil, err
	}
	if err := kind.validate(); err != nil {
		return nil, err
	}

	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: domainPath(typ, kind, "")})
	if err != nil {
		return nil, err
	}

	var resp DomainsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse domains: %w", err)
	}
	return &resp, nil
}

// AllDomains lists every managed domain regardless of type and kind.
func (c *Client) AllDomains(ctx context.Context) (*DomainsResponse, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "domains"})
	if err != nil {
		return nil, err
	}

	var resp DomainsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse domains: %w", err)
	}
	return &resp, nil
}

// AddDomain adds a single domain. It is shorthand for AddDomains with a
// one-element slice and sends the identical request body shape.
func (c *Client) AddDomain(ctx context.Context, typ DomainType, kind DomainKind, domain string, opts *DomainOptions) (*DomainsResponse, error) {
	return c.AddDomains(ctx, typ, kind, []string{domain}, opts)
}

// AddDomains adds a batch of domains in one request.
func (c *Client) AddDomains(ctx context.Context, typ DomainType, kind DomainKind, domains []string, opts *DomainOptions) (*DomainsResponse, error) {
	if err := typ.validate(); err != nil {
		return nil, err
	}
	if err := kind.validate(); err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, fmt.Errorf("at least one domain is required")
	}

	payload := map[string]any{"domain": domains}
	applyDomainOptions(payload, opts)

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   domainPath(typ, kind, ""),
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp DomainsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse domains: %w", err)
	}
	return &resp, nil
}

// UpdateDomain replaces the attributes of an existing domain entry.
func (c *Client) UpdateDomain(ctx context.Context, typ DomainType, kind DomainKind, domain string, opts *DomainOptions) (*DomainsResponse, error) {
	if err := typ.validate(); err != nil {
		return nil, err
	}
	if err := kind.validate(); err != nil {
		return nil, err
	}

	payload := map[string]any{}
	applyDomainOptions(payload, opts)

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodPut,
		path:   domainPath(typ, kind, domain),
		body:   payload,
	})
	if err != nil {
		return nil, err
	}

	var resp DomainsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse domains: %w", err)
	}
	return &resp, nil
}

// DeleteDomain removes one domain entry.
func (c *Client) DeleteDomain(ctx context.Context, typ DomainType, kind DomainKind, domain string) error {
	if err := typ.validate(); err != nil {
		return err
	}
	if err := kind.validate(); err != nil {
		return err
	}

	_, err := c.do(ctx, &requestSpec{method: http.MethodDelete, path: domainPath(typ, kind, domain)})
	return err
}

// DeleteDomains removes a batch of domain entries in one request.
func (c *Client) DeleteDomains(ctx context.Context, refs []DomainRef) error {
	if len(refs) == 0 {
		return nil
	}
	for _, ref := range refs {
		if err := ref.Type.validate(); err != nil {
			return err
		}
		if err := ref.Kind.validate(); err != nil {
			return err
		}
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodPost,
		path:   "domains:batchDelete",
		body:   refs,
	})
	return err
}

func applyDomainOptions(payload map[string]any, opts *DomainOptions) {
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
