package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// DHCPLease is one active lease handed out by the embedded DHCP server.
type DHCPLease struct {
	Expires  int64  `json:"expires"`
	HWAddr   string `json:"hwaddr"`
	IP       string `json:"ip"`
	Name     string `json:"name"`
	ClientID string `json:"clientid"`
}

// Leases retrieves the currently active DHCP leases.
func (c *Client) Leases(ctx context.Context) ([]DHCPLease, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "dhcp/leases"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Leases []DHCPLease `json:"leases"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse leases: %w", err)
	}
	return resp.Leases, nil
}

// DeleteLease removes the DHCP lease for the given IP.
func (c *Client) DeleteLease(ctx context.Context, ip string) error {
	if ip == "" {
		return fmt.Errorf("lease IP is required")
	}

	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "dhcp/leases/" + url.PathEscape(ip),
	})
	return err
}
