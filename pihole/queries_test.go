package pihole

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestQueriesParams(t *testing.T) {
	stub := newPiholeStub()
	var gotQuery map[string][]string
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/queries", r.URL.Path)
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"queries": []any{}, "cursor": 0})
	}
	client := newTestClient(t, stub)

	from := time.Unix(1700000000, 0)
	_, err := client.Queries(context.Background(), &QueryLogOptions{
		From:     from,
		Length:   50,
		Domain:   "*.example.com",
		ClientIP: "192.168.1.42",
		Status:   "GRAVITY",
		DiskOnly: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"1700000000"}, gotQuery["from"])
	assert.Equal(t, []string{"50"}, gotQuery["length"])
	assert.Equal(t, []string{"*.example.com"}, gotQuery["domain"])
	assert.Equal(t, []string{"192.168.1.42"}, gotQuery["client_ip"])
	assert.Equal(t, []string{"GRAVITY"}, gotQuery["status"])
	assert.Equal(t, []string{"true"}, gotQuery["disk"])
	assert.NotContains(t, gotQuery, "until", "zero values must be omitted")
}

func TestQueriesNilOptions(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]any{
			"queries": []map[string]any{{
				"id":     1,
				"time":   1700000000.5,
				"type":   "A",
				"domain": "example.com",
				"status": "FORWARDED",
				"client": map[string]any{"ip": "10.0.0.2", "name": "laptop"},
				"reply":  map[string]any{"type": "IP", "time": 0.01},
			}},
			"cursor":       175881,
			"recordsTotal": 1,
		})
	}
	client := newTestClient(t, stub)

	log, err := client.Queries(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, log.Queries, 1)
	assert.Equal(t, "example.com", log.Queries[0].Domain)
	assert.Equal(t, int64(175881), log.Cursor)
	require.NotNil(t, log.Queries[0].Client.Name)
	assert.Equal(t, "laptop", *log.Queries[0].Client.Name)
}

func sampleQueries() []Query {
	mk := func(domain, qtype, status, ip string, name, upstream *string) Query {
		q := Query{Domain: domain, Type: qtype, Status: status}
		q.Client.IP = ip
		q.Client.Name = name
		q.Upstream = upstream
		return q
	}
	return []Query{
		mk("ads.doubleclick.net", "A", "GRAVITY", "192.168.1.42", strPtr("laptop"), nil),
		mk("example.com", "AAAA", "FORWARDED", "192.168.1.42", strPtr("laptop"), strPtr("8.8.8.8#53")),
		mk("pi.hole", "A", "CACHE", "192.168.1.7", nil, nil),
		mk("tracker.doubleclick.net", "A", "REGEX", "192.168.1.7", nil, nil),
	}
}

func TestFilterQueries(t *testing.T) {
	queries := sampleQueries()

	tests := []struct {
		name       string
		expression string
		want       int
	}{
		{"blocked only", `Blocked`, 2},
		{"domain suffix", `Domain endsWith "doubleclick.net"`, 2},
		{"blocked and domain", `Blocked && Domain endsWith "doubleclick.net"`, 2},
		{"by client", `Client == "192.168.1.42"`, 2},
		{"by client name", `ClientName == "laptop" && !Blocked`, 1},
		{"cached", `Cached`, 1},
		{"by type", `Type == "AAAA"`, 1},
		{"by upstream", `Upstream startsWith "8.8.8.8"`, 1},
		{"no match", `Domain == "nothing.invalid"`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, err := FilterQueries(queries, tt.expression)
			require.NoError(t, err)
			assert.Len(t, matched, tt.want)
		})
	}
}

func TestFilterQueriesInvalidExpression(t *testing.T) {
	_, err := FilterQueries(sampleQueries(), `Domain endsWith`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to compile filter expression")
}

func TestFilterQueriesRequiresBool(t *testing.T) {
	_, err := FilterQueries(sampleQueries(), `Domain`)
	require.Error(t, err)
}

func TestQueryBlocked(t *testing.T) {
	assert.True(t, Query{Status: "GRAVITY"}.Blocked())
	assert.True(t, Query{Status: "REGEX"}.Blocked())
	assert.True(t, Query{Status: "DENYLIST"}.Blocked())
	assert.False(t, Query{Status: "FORWARDED"}.Blocked())
	assert.False(t, Query{Status: "CACHE"}.Blocked())
}
