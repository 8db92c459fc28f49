package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// StatsSummary holds the aggregate counters from /stats/summary.
type StatsSummary struct {
	Queries struct {
		Total          int            `json:"total"`
		Blocked        int            `json:"blocked"`
		PercentBlocked float64        `json:"percent_blocked"`
		UniqueDomains  int            `json:"unique_domains"`
		Forwarded      int            `json:"forwarded"`
		Cached         int            `json:"cached"`
		Frequency      float64        `json:"frequency"`
		Types          map[string]int `json:"types"`
	} `json:"queries"`
	Clients struct {
		Active int `json:"active"`
		Total  int `json:"total"`
	} `json:"clients"`
	Gravity struct {
		DomainsBeingBlocked int   `json:"domains_being_blocked"`
		LastUpdate          int64 `json:"last_update"`
	} `json:"gravity"`
	Took float64 `json:"took"`
}

// TopDomain is one entry of a top-domains ranking.
type TopDomain struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// TopDomains holds the ranking returned by /stats/top_domains.
type TopDomains struct {
	Domains        []TopDomain `json:"domains"`
	TotalQueries   int         `json:"total_queries"`
	BlockedQueries int         `json:"blocked_queries"`
	Took           float64     `json:"took"`
}

// TopClient is one entry of a top-clients ranking.
type TopClient struct {
	IP    string `json:"ip"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopClients holds the ranking returned by /stats/top_clients.
type TopClients struct {
	Clients        []TopClient `json:"clients"`
	TotalQueries   int         `json:"total_queries"`
	BlockedQueries int         `json:"blocked_queries"`
	Took           float64     `json:"took"`
}

// Upstream describes one upstream destination and its share of traffic.
type Upstream struct {
	IP         string `json:"ip"`
	Name       string `json:"name"`
	Port       int    `json:"port"`
	Count      int    `json:"count"`
	Statistics struct {
		Response float64 `json:"response"`
		Variance float64 `json:"variance"`
	} `json:"statistics"`
}

// Upstreams holds the response of /stats/upstreams.
type Upstreams struct {
	Upstreams        []Upstream `json:"upstreams"`
	ForwardedQueries int        `json:"forwarded_queries"`
	TotalQueries     int        `json:"total_queries"`
	Took             float64    `json:"took"`
}

// HistorySlot is one time bucket of the activity graph.
type HistorySlot struct {
	Timestamp int64 `json:"timestamp"`
	Total     int   `json:"total"`
	Cached    int   `json:"cached"`
	Blocked   int   `json:"blocked"`
	Forwarded int   `json:"forwarded"`
}

// History holds the activity graph returned by /history.
type History struct {
	History []HistorySlot `json:"history"`
	Took    float64       `json:"took"`
}

// ClientHistory holds the per-client activity graph from /history/clients.
type ClientHistory struct {
	Clients map[string]struct {
		Name  string `json:"name"`
		Total int    `json:"total"`
	} `json:"clients"`
	History []struct {
		Timestamp int64          `json:"timestamp"`
		Data      map[string]int `json:"data"`
	} `json:"history"`
	Took float64 `json:"took"`
}

// TopItemsOptions narrows a top-domains or top-clients ranking.
type TopItemsOptions struct {
	// Count limits the number of returned entries; the server default is
	// used when zero.
	Count int
	// Blocked ranks blocked traffic instead of permitted traffic.
	Blocked bool
}

func (o *TopItemsOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if o.Count > 0 {
		params.Set("count", strconv.Itoa(o.Count))
	}
	if o.Blocked {
		params.Set("blocked", "true")
	}
	return params
}

// Summary retrieves the aggregate query statistics.
func (c *Client) Summary(ctx context.Context) (*StatsSummary, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "stats/summary"})
	if err != nil {
		return nil, err
	}

	var summary StatsSummary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}
	return &summary, nil
}

// TopDomains retrieves the most queried (or most blocked) domains.
func (c *Client) TopDomains(ctx context.Context, opts *TopItemsOptions) (*TopDomains, error) {
	body, err := c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "stats/top_domains",
		query:  opts.values(),
	})
	if err != nil {
		return nil, err
	}

	var top TopDomains
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("failed to parse top domains: %w", err)
	}
	return &top, nil
}

// TopClients retrieves the most active clients.
func (c *Client) TopClients(ctx context.Context, opts *TopItemsOptions) (*TopClients, error) {
	body, err := c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "stats/top_clients",
		query:  opts.values(),
	})
	if err != nil {
		return nil, err
	}

	var top TopClients
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("failed to parse top clients: %w", err)
	}
	return &top, nil
}

// Upstreams retrieves the upstream destinations and their traffic share.
func (c *Client) Upstreams(ctx context.Context) (*Upstreams, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "stats/upstreams"})
	if err != nil {
		return nil, err
	}

	var upstreams Upstreams
	if err := json.Unmarshal(body, &upstreams); err != nil {
		return nil, fmt.Errorf("failed to parse upstreams: %w", err)
	}
	return &upstreams, nil
}

// RecentBlocked retrieves the most recently blocked domains. A count of zero
// uses the server default.
func (c *Client) RecentBlocked(ctx context.Context, count int) ([]string, error) {
	params := url.Values{}
	if count > 0 {
		params.Set("count", strconv.Itoa(count))
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "stats/recent_blocked",
		query:  params,
	})
	if err != nil {
		return nil, err
	}

	var resp struct {
		Blocked []string `json:"blocked"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse recent blocked: %w", err)
	}
	return resp.Blocked, nil
}

// History retrieves the activity graph over the last 24 hours.
func (c *Client) History(ctx context.Context) (*History, error) {
	body, err := c.do(ctx, &requestSpec{method: http.MethodGet, path: "history"})
	if err != nil {
		return nil, err
	}

	var history History
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return &history, nil
}

// ClientHistory retrieves the per-client activity graph. A count of zero
// uses the server default for the number of separately tracked clients.
func (c *Client) ClientHistory(ctx context.Context, count int) (*ClientHistory, error) {
	params := url.Values{}
	if count > 0 {
		params.Set("N", strconv.Itoa(count))
	}

	body, err := c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "history/clients",
		query:  params,
	})
	if err != nil {
		return nil, err
	}

	var history ClientHistory
	if err := json.Unmarshal(body, &history); err != nil {
		return nil, fmt.Errorf("failed to parse client history: %w", err)
	}
	return &history, nil
}
