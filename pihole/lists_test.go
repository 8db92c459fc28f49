package pihole

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsTypeFilter(t *testing.T) {
	stub, requests := recordingStub(`{"lists":[{"address":"https://example.com/hosts.txt","type":"block","enabled":true,"id":1}],"took":0.02}`)
	client := newTestClient(t, stub)

	resp, err := client.Lists(context.Background(), ListBlock)
	require.NoError(t, err)
	require.Len(t, resp.Lists, 1)
	assert.Equal(t, "https://example.com/hosts.txt", resp.Lists[0].Address)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/lists", (*requests)[0].path)
}

func TestListsInvalidType(t *testing.T) {
	stub := newPiholeStub()
	client := newTestClient(t, stub)

	_, err := client.Lists(context.Background(), "denylist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid list type")
}

func TestAddListMatchesSingleElementBatch(t *testing.T) {
	ctx := context.Background()

	stub, requests := recordingStub(`{"lists":[],"took":0.1}`)
	client := newTestClient(t, stub)
	_, err := client.AddList(ctx, "https://example.com/hosts.txt", ListBlock, nil)
	require.NoError(t, err)

	stub2, requests2 := recordingStub(`{"lists":[],"took":0.1}`)
	client2 := newTestClient(t, stub2)
	_, err = client2.AddLists(ctx, []string{"https://example.com/hosts.txt"}, ListBlock, nil)
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	require.Len(t, *requests2, 1)
	assert.JSONEq(t, string((*requests2)[0].body), string((*requests)[0].body))

	var payload map[string]any
	require.NoError(t, json.Unmarshal((*requests)[0].body, &payload))
	assert.Equal(t, []any{"https://example.com/hosts.txt"}, payload["address"])
	assert.Equal(t, "block", payload["type"])
}

func TestDeleteListsBatch(t *testing.T) {
	stub, requests := recordingStub("")
	client := newTestClient(t, stub)

	err := client.DeleteLists(context.Background(), []ListRef{
		{Item: "https://example.com/a.txt", Type: ListBlock},
		{Item: "https://example.com/b.txt", Type: ListAllow},
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/lists:batchDelete", (*requests)[0].path)

	var payload []map[string]string
	require.NoError(t, json.Unmarshal((*requests)[0].body, &payload))
	require.Len(t, payload, 2)
	assert.Equal(t, "allow", payload[1]["type"])
}

func TestAddGroupBody(t *testing.T) {
	stub, requests := recordingStub(`{"groups":[],"took":0.1}`)
	client := newTestClient(t, stub)

	_, err := client.AddGroup(context.Background(), "iot", &GroupOptions{Comment: "IoT devices"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/groups", (*requests)[0].path)

	var payload map[string]any
	require.NoError(t, json.Unmarshal((*requests)[0].body, &payload))
	assert.Equal(t, "iot", payload["name"])
	assert.Equal(t, "IoT devices", payload["comment"])
	assert.Equal(t, true, payload["enabled"])
}

func TestDeleteGroupsBatch(t *testing.T) {
	stub, requests := recordingStub("")
	client := newTestClient(t, stub)

	err := client.DeleteGroups(context.Background(), []string{"iot", "kids"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/groups:batchDelete", (*requests)[0].path)

	var payload []map[string]string
	require.NoError(t, json.Unmarshal((*requests)[0].body, &payload))
	assert.Equal(t, []map[string]string{{"item": "iot"}, {"item": "kids"}}, payload)
}

func TestClientSuggestions(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/clients/_suggestions", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"clients": []map[string]any{{
				"hwaddr":    "aa:bb:cc:dd:ee:ff",
				"macVendor": "Example Corp",
				"lastQuery": 1700000000,
				"addresses": "192.168.1.42",
				"names":     "laptop",
			}},
		})
	}
	client := newTestClient(t, stub)

	suggestions, err := client.ClientSuggestions(context.Background())
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", suggestions[0].HWAddr)
	require.NotNil(t, suggestions[0].Addresses)
	assert.Equal(t, "192.168.1.42", *suggestions[0].Addresses)
}

func TestDeleteClientsBatch(t *testing.T) {
	stub, requests := recordingStub("")
	client := newTestClient(t, stub)

	err := client.DeleteClients(context.Background(), []string{"192.168.1.42"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	assert.Equal(t, "/api/clients:batchDelete", (*requests)[0].path)
}
