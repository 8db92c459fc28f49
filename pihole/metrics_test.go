package pihole

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/summary", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"queries": map[string]any{
				"total":           12345,
				"blocked":         2345,
				"percent_blocked": 19.0,
				"unique_domains":  812,
				"forwarded":       8000,
				"cached":          2000,
				"types":           map[string]int{"A": 9000, "AAAA": 3345},
			},
			"clients": map[string]any{"active": 12, "total": 30},
			"gravity": map[string]any{"domains_being_blocked": 131234, "last_update": 1700000000},
			"took":    0.003,
		})
	}
	client := newTestClient(t, stub)

	summary, err := client.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12345, summary.Queries.Total)
	assert.Equal(t, 2345, summary.Queries.Blocked)
	assert.Equal(t, 19.0, summary.Queries.PercentBlocked)
	assert.Equal(t, 9000, summary.Queries.Types["A"])
	assert.Equal(t, 12, summary.Clients.Active)
	assert.Equal(t, 131234, summary.Gravity.DomainsBeingBlocked)
}

func TestTopDomainsParams(t *testing.T) {
	stub := newPiholeStub()
	var gotQuery map[string][]string
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"domains":       []map[string]any{{"domain": "ads.example.com", "count": 99}},
			"total_queries": 12345,
		})
	}
	client := newTestClient(t, stub)

	top, err := client.TopDomains(context.Background(), &TopItemsOptions{Count: 5, Blocked: true})
	require.NoError(t, err)
	require.Len(t, top.Domains, 1)
	assert.Equal(t, "ads.example.com", top.Domains[0].Domain)

	assert.Equal(t, []string{"5"}, gotQuery["count"])
	assert.Equal(t, []string{"true"}, gotQuery["blocked"])
}

func TestTopDomainsNilOptions(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]any{"domains": []any{}})
	}
	client := newTestClient(t, stub)

	_, err := client.TopDomains(context.Background(), nil)
	require.NoError(t, err)
}

func TestRecentBlocked(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stats/recent_blocked", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("count"))
		json.NewEncoder(w).Encode(map[string]any{
			"blocked": []string{"a.ads.net", "b.ads.net", "c.ads.net"},
		})
	}
	client := newTestClient(t, stub)

	blocked, err := client.RecentBlocked(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ads.net", "b.ads.net", "c.ads.net"}, blocked)
}

func TestHistory(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"history": []map[string]any{
				{"timestamp": 1700000000, "total": 42, "cached": 10, "blocked": 5, "forwarded": 27},
			},
		})
	}
	client := newTestClient(t, stub)

	history, err := client.History(context.Background())
	require.NoError(t, err)
	require.Len(t, history.History, 1)
	assert.Equal(t, int64(1700000000), history.History[0].Timestamp)
	assert.Equal(t, 42, history.History[0].Total)
}

func TestOverviewFetchesConcurrently(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stats/summary":
			json.NewEncoder(w).Encode(map[string]any{
				"queries": map[string]any{"total": 100, "blocked": 10},
			})
		case "/api/dns/blocking":
			json.NewEncoder(w).Encode(map[string]any{"blocking": "enabled"})
		case "/api/info/version":
			json.NewEncoder(w).Encode(map[string]any{
				"version": map[string]any{
					"core": map[string]any{
						"local":  map[string]any{"version": "v6.0.1"},
						"remote": map[string]any{"version": "v6.0.1"},
					},
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}
	client := newTestClient(t, stub)

	overview, err := client.Overview(context.Background())
	require.NoError(t, err)
	require.NotNil(t, overview.Summary)
	require.NotNil(t, overview.Blocking)
	require.NotNil(t, overview.Version)
	assert.Equal(t, 100, overview.Summary.Queries.Total)
	assert.True(t, overview.Blocking.Enabled())

	auth, _, resource := stub.counts()
	assert.Equal(t, 1, auth, "concurrent calls must share one session")
	assert.Equal(t, 3, resource)
}
