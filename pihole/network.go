package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// DeviceAddress is one IP address observed for a network device.
type DeviceAddress struct {
	IP          string  `json:"ip"`
	Name        *string `json:"name"`
	LastSeen    int64   `json:"lastSeen"`
	NameUpdated int64   `json:"nameUpdated"`
}

// NetworkDevice is one device from the network table.
type NetworkDevice struct {
	ID         int             `json:"id"`
	HWAddr     string          `json:"hwaddr"`
	Interface  string          `json:"interface"`
	FirstSeen  int64           `json:"firstSeen"`
	LastQuery  int64           `json:"lastQuery"`
	NumQueries int             `json:"numQueries"`
	MacVendor  *string         `json:"macVendor"`
	IPs        []DeviceAddress `json:"ips"`
}

// GatewayEntry describes one default gateway.
type GatewayEntry struct {
	Family    string `json:"family"`
	Interface string `json:"interface"`
	Address   string `json:"address"`
}

// NetworkInterface is one host interface as seen by FTL.
type NetworkInterface struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Flags   []string `json:"flags"`
	Carrier bool     `json:"carrier"`
	Speed   *int     `json:"speed"`
}

// RouteEntry is one entry of the host routing table.
type RouteEntry struct {
	Family      string  `json:"family"`
	Table       int     `json:"table"`
	Protocol    string  `json:"protocol"`
	Scope       string  `json:"scope"`
	Type        string  `json:"type"`
	Destination *string `json:"dst"`
	Gateway     *string `json:"gateway"`
	Interface   *string `json:"oif"`
}

// DevicesOptions caps a device listing.
type DevicesOptions struct {
	// MaxDevices limits the number of returned devices; MaxAddresses
	// limits the addresses listed per device. Zero keeps the server
	// default.
	MaxDevices   int
	MaxAddresses int
}

// Devices retrieves the network device table.
func (c *Client) Devices(ctx context.Context, opts *DevicesOptions) ([]NetworkDevice, error) {
	params := url.Values{}
	if opts != nil {
		if opts.MaxDevices > 0 {
			params.Set("max_devices", strconv.Itoa(opts.MaxDevices))
		}
		if opts.MaxAddresses > 0 {
			params.Set("max_addresses", strconv.Itoa(opts.MaxAddresses))
		}
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "network/devices",
		query:  params,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Devices []NetworkDevice `json:"devices"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse devices: %w", err)
	}
	return resp.Devices, nil
}

// DeleteDevice removes one device from the network table.
func (c *Client) DeleteDevice(ctx context.Context, id int) error {
	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "network/devices/" + strconv.Itoa(id),
	})
	return err
}

// Gateway retrieves the default gateway(s) of the host.
func (c *Client) Gateway(ctx context.Context) ([]GatewayEntry, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "network/gateway"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Gateway []GatewayEntry `json:"gateway"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse gateway: %w", err)
	}
	return resp.Gateway, nil
}

// Interfaces retrieves the host network interfaces.
func (c *Client) Interfaces(ctx context.Context) ([]NetworkInterface, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "network/interfaces"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Interfaces []NetworkInterface `json:"interfaces"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse interfaces: %w", err)
	}
	return resp.Interfaces, nil
}

// Routes retrieves the host routing table.
func (c *Client) Routes(ctx context.Context) ([]RouteEntry, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "network/routes"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Routes []RouteEntry `json:"routes"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse routes: %w", err)
	}
	return resp.Routes, nil
}
