package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ComponentVersion is the version of one Pi-hole component on one side
// (local install or remote release).
type ComponentVersion struct {
	Branch  *string `json:"branch,omitempty"`
	Version *string `json:"version"`
	Hash    *string `json:"hash"`
}

// Component pairs the installed version of a Pi-hole component with the
// latest released one.
type Component struct {
	Local  ComponentVersion `json:"local"`
	Remote ComponentVersion `json:"remote"`
}

// VersionInfo holds the versions of all Pi-hole components.
type VersionInfo struct {
	Version struct {
		Core   Component `json:"core"`
		Web    Component `json:"web"`
		FTL    Component `json:"ftl"`
		Docker struct {
			Local  *string `json:"local"`
			Remote *string `json:"remote"`
		} `json:"docker"`
	} `json:"version"`
	Took float64 `json:"took"`
}

// FTLInfo holds the resolver's runtime counters.
type FTLInfo struct {
	FTL struct {
		Database struct {
			Gravity int `json:"gravity"`
			Groups  int `json:"groups"`
			Lists   int `json:"lists"`
			Clients int `json:"clients"`
			Domains struct {
				Allowed int `json:"allowed"`
				Denied  int `json:"denied"`
			} `json:"domains"`
		} `json:"database"`
		PrivacyLevel int `json:"privacy_level"`
		Clients      struct {
			Total  int `json:"total"`
			Active int `json:"active"`
		} `json:"clients"`
		PID int `json:"pid"`
	} `json:"ftl"`
	Took float64 `json:"took"`
}

// SystemInfo holds host load, memory and process counters.
type SystemInfo struct {
	System struct {
		Uptime int64 `json:"uptime"`
		Memory struct {
			RAM struct {
				Total       int64   `json:"total"`
				Free        int64   `json:"free"`
				Used        int64   `json:"used"`
				Available   int64   `json:"available"`
				PercentUsed float64 `json:"%used"`
			} `json:"ram"`
			Swap struct {
				Total       int64   `json:"total"`
				Free        int64   `json:"free"`
				Used        int64   `json:"used"`
				PercentUsed float64 `json:"%used"`
			} `json:"swap"`
		} `json:"memory"`
		Procs int `json:"procs"`
		CPU   struct {
			NProcs int `json:"nprocs"`
			Load   struct {
				Raw     []float64 `json:"raw"`
				Percent []float64 `json:"percent"`
			} `json:"load"`
		} `json:"cpu"`
	} `json:"system"`
	Took float64 `json:"took"`
}

// HostInfo holds the host identification as reported by uname.
type HostInfo struct {
	Host struct {
		Uname struct {
			Sysname  string `json:"sysname"`
			Nodename string `json:"nodename"`
			Release  string `json:"release"`
			Version  string `json:"version"`
			Machine  string `json:"machine"`
		} `json:"uname"`
		Model *string `json:"model"`
	} `json:"host"`
	Took float64 `json:"took"`
}

// SensorsInfo holds the host's temperature sensor readings.
type SensorsInfo struct {
	Sensors struct {
		List []struct {
			Name   string `json:"name"`
			Path   string `json:"path"`
			Source string `json:"source"`
			Temps  []struct {
				Name   *string  `json:"name"`
				Value  float64  `json:"value"`
				Max    *float64 `json:"max"`
				Crit   *float64 `json:"crit"`
				Sensor string   `json:"sensor"`
			} `json:"temps"`
		} `json:"list"`
		CPUTemp  *float64 `json:"cpu_temp"`
		HotLimit float64  `json:"hot_limit"`
		Unit     string   `json:"unit"`
	} `json:"sensors"`
	Took float64 `json:"took"`
}

// DatabaseInfo holds size and row counts of the long-term query database.
type DatabaseInfo struct {
	Queries struct {
		Total int64 `json:"total"`
	} `json:"queries"`
	FileSize    int64   `json:"filesize"`
	SQLite      string  `json:"sqlite_version"`
	GravitySize *int64  `json:"gravity_size"`
	Took        float64 `json:"took"`
}

// Message is one diagnosis message from Pi-hole.
type Message struct {
	ID        int     `json:"id"`
	Timestamp int64   `json:"timestamp"`
	Type      string  `json:"type"`
	Plain     string  `json:"plain"`
	HTML      *string `json:"html"`
}

// Version retrieves the versions of all Pi-hole components.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/version"})
	if err != nil {
		return nil, err
	}

	var info VersionInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse version info: %w", err)
	}
	return &info, nil
}

// FTLInfo retrieves the resolver's runtime counters.
func (c *Client) FTLInfo(ctx context.Context) (*FTLInfo, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/ftl"})
	if err != nil {
		return nil, err
	}

	var info FTLInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse FTL info: %w", err)
	}
	return &info, nil
}

// SystemInfo retrieves host load, memory and process counters.
func (c *Client) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/system"})
	if err != nil {
		return nil, err
	}

	var info SystemInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse system info: %w", err)
	}
	return &info, nil
}

// HostInfo retrieves the host identification.
func (c *Client) HostInfo(ctx context.Context) (*HostInfo, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/host"})
	if err != nil {
		return nil, err
	}

	var info HostInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse host info: %w", err)
	}
	return &info, nil
}

// SensorsInfo retrieves the host's temperature sensor readings.
func (c *Client) SensorsInfo(ctx context.Context) (*SensorsInfo, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/sensors"})
	if err != nil {
		return nil, err
	}

	var info SensorsInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse sensors info: %w", err)
	}
	return &info, nil
}

// DatabaseInfo retrieves size and row counts of the long-term database.
func (c *Client) DatabaseInfo(ctx context.Context) (*DatabaseInfo, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/database"})
	if err != nil {
		return nil, err
	}

	var info DatabaseInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse database info: %w", err)
	}
	return &info, nil
}

// Messages retrieves the pending diagnosis messages.
func (c *Client) Messages(ctx context.Context) ([]Message, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "info/messages"})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return resp.Messages, nil
}

// DeleteMessage dismisses one diagnosis message.
func (c *Client) DeleteMessage(ctx context.Context, id int) error {
	_, err := c.do(ctx, &requestSpec{
		method: http.MethodDelete,
		path:   "info/messages/" + strconv.Itoa(id),
	})
	return err
}
