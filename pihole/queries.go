package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/expr-lang/expr"
)

// Query is one entry of the query log.
type Query struct {
	ID     int64   `json:"id"`
	Time   float64 `json:"time"`
	Type   string  `json:"type"`
	Domain string  `json:"domain"`
	CNAME  *string `json:"cname"`
	Status string  `json:"status"`
	Client struct {
		IP   string  `json:"ip"`
		Name *string `json:"name"`
	} `json:"client"`
	DNSSEC string `json:"dnssec"`
	Reply  struct {
		Type string  `json:"type"`
		Time float64 `json:"time"`
	} `json:"reply"`
	ListID   *int    `json:"list_id"`
	Upstream *string `json:"upstream"`
}

// blockedStatuses covers every status FTL assigns to a blocked query.
var blockedStatuses = map[string]bool{
	"GRAVITY":                true,
	"REGEX":                  true,
	"DENYLIST":               true,
	"GRAVITY_CNAME":          true,
	"REGEX_CNAME":            true,
	"DENYLIST_CNAME":         true,
	"EXTERNAL_BLOCKED_GEOIP": true,
	"EXTERNAL_BLOCKED_IP":    true,
	"EXTERNAL_BLOCKED_NULL":  true,
	"EXTERNAL_BLOCKED_NXRA":  true,
	"EXTERNAL_BLOCKED_EDE15": true,
	"SPECIAL_DOMAIN":         true,
}

// Blocked reports whether this query was answered with a block.
func (q Query) Blocked() bool {
	return blockedStatuses[q.Status]
}

// QueryLog holds one page of the query log.
type QueryLog struct {
	Queries         []Query `json:"queries"`
	Cursor          int64   `json:"cursor"`
	RecordsTotal    int     `json:"recordsTotal"`
	RecordsFiltered int     `json:"recordsFiltered"`
	Draw            int     `json:"draw"`
	Took            float64 `json:"took"`
}

// QueryLogOptions narrows and paginates a query-log fetch. Zero values are
// omitted from the request so the server defaults apply.
type QueryLogOptions struct {
	From  time.Time
	Until time.Time

	// Length caps the number of returned queries; Start skips that many
	// entries; Cursor resumes a previous fetch at a stable position.
	Length int
	Start  int
	Cursor int64

	// Server-side filters. Domain and ClientIP accept wildcards.
	Domain     string
	ClientIP   string
	ClientName string
	Upstream   string
	Type       string
	Status     string
	Reply      string
	DNSSEC     string

	// DiskOnly restricts the result to queries already flushed to the
	// long-term database.
	DiskOnly bool
}

func (o *QueryLogOptions) values() url.Values {
	params := url.Values{}
	if o == nil {
		return params
	}
	if !o.From.IsZero() {
		params.Set("from", strconv.FormatInt(o.From.Unix(), 10))
	}
	if !o.Until.IsZero() {
		params.Set("until", strconv.FormatInt(o.Until.Unix(), 10))
	}
	if o.Length > 0 {
		params.Set("length", strconv.Itoa(o.Length))
	}
	if o.Start > 0 {
		params.Set("start", strconv.Itoa(o.Start))
	}
	if o.Cursor > 0 {
		params.Set("cursor", strconv.FormatInt(o.Cursor, 10))
	}
	if o.Domain != "" {
		params.Set("domain", o.Domain)
	}
	if o.ClientIP != "" {
		params.Set("client_ip", o.ClientIP)
	}
	if o.ClientName != "" {
		params.Set("client_name", o.ClientName)
	}
	if o.Upstream != "" {
		params.Set("upstream", o.Upstream)
	}
	if o.Type != "" {
		params.Set("type", o.Type)
	}
	if o.Status != "" {
		params.Set("status", o.Status)
	}
	if o.Reply != "" {
		params.Set("reply", o.Reply)
	}
	if o.DNSSEC != "" {
		params.Set("dnssec", o.DNSSEC)
	}
	if o.DiskOnly {
		params.Set("disk", "true")
	}
	return params
}

// Queries retrieves one page of the query log.
func (c *Client) Queries(ctx context.Context, opts *QueryLogOptions) (*QueryLog, error) {
	body, err := c.do(ctx, &requestSpec{
		method: http.MethodGet,
		path:   "queries",
		query:  opts.values(),
	})
	if err != nil {
		return nil, err
	}

	var log QueryLog
	if err := json.Unmarshal(body, &log); err != nil {
		return nil, fmt.Errorf("failed to parse query log: %w", err)
	}
	return &log, nil
}

// queryEnv builds the expression environment for one query.
func queryEnv(q Query) map[string]any {
	env := map[string]any{
		"Domain":   q.Domain,
		"Type":     q.Type,
		"Status":   q.Status,
		"Client":   q.Client.IP,
		"Upstream": "",
		"Reply":    q.Reply.Type,
		"Blocked":  q.Blocked(),
		"Cached":   q.Status == "CACHE" || q.Status == "CACHE_STALE",
		"Time":     time.Unix(int64(q.Time), 0),
	}
	if q.Client.Name != nil {
		env["ClientName"] = *q.Client.Name
	} else {
		env["ClientName"] = ""
	}
	if q.Upstream != nil {
		env["Upstream"] = *q.Upstream
	}
	return env
}

// FilterQueries evaluates a boolean expression against each query and keeps
// the matches. The expression sees the fields Domain, Type, Status, Client,
// ClientName, Upstream, Reply, Time and the helpers Blocked and Cached, e.g.
//
//	Blocked && Domain endsWith "doubleclick.net"
//	Client == "192.168.1.42" && Type == "AAAA"
func FilterQueries(queries []Query, expression string) ([]Query, error) {
	program, err := expr.Compile(expression, expr.Env(queryEnv(Query{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}

	var matched []Query
	for _, q := range queries {
		result, err := expr.Run(program, queryEnv(q))
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate filter expression: %w", err)
		}
		if result.(bool) {
			matched = append(matched, q)
		}
	}
	return matched, nil
}
