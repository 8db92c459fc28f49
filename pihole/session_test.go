package pihole

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// piholeStub fakes the Pi-hole auth endpoint and one resource endpoint,
// counting every round trip so tests can assert exactly how many logins,
// logouts and resource requests a call sequence produced.
type piholeStub struct {
	mu            sync.Mutex
	authCalls     int
	logoutCalls   int
	resourceCalls int

	validity    int
	rejectLogin bool
	reject401   int // reject this many resource calls with 401 regardless of sid

	sid      string
	resource http.HandlerFunc
}

func newPiholeStub() *piholeStub {
	return &piholeStub{validity: 1800}
}

func (s *piholeStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.URL.Path == "/api/auth" {
		switch r.Method {
		case http.MethodPost:
			s.authCalls++
			if s.rejectLogin {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]any{
					"session": map[string]any{"valid": false, "message": "password incorrect"},
				})
				return
			}
			s.sid = fmt.Sprintf("sid-%d", s.authCalls)
			json.NewEncoder(w).Encode(map[string]any{
				"session": map[string]any{
					"valid":    true,
					"sid":      s.sid,
					"csrf":     "csrf-" + s.sid,
					"validity": s.validity,
				},
			})
		case http.MethodDelete:
			s.logoutCalls++
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}

	if s.reject401 > 0 {
		s.reject401--
		writeUnauthorized(w)
		return
	}
	if r.Header.Get("X-FTL-SID") != s.sid || s.sid == "" {
		writeUnauthorized(w)
		return
	}

	s.resourceCalls++
	if s.resource != nil {
		s.resource(w, r)
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"blocking": "enabled", "timer": nil, "took": 0.01})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"key": "unauthorized", "message": "unauthorized", "hint": nil},
	})
}

func (s *piholeStub) counts() (auth, logout, resource int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authCalls, s.logoutCalls, s.resourceCalls
}

func newTestClient(t *testing.T, stub *piholeStub, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(stub)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, "secret", zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestLazyAuthentication(t *testing.T) {
	stub := newPiholeStub()
	client := newTestClient(t, stub)

	// Construction alone must not touch the network.
	auth, _, _ := stub.counts()
	assert.Equal(t, 0, auth)

	_, err := client.Blocking(context.Background())
	require.NoError(t, err)

	auth, _, resource := stub.counts()
	assert.Equal(t, 1, auth)
	assert.Equal(t, 1, resource)
}

func TestSessionReuse(t *testing.T) {
	stub := newPiholeStub()
	client := newTestClient(t, stub)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.Blocking(ctx)
		require.NoError(t, err)
	}

	auth, _, resource := stub.counts()
	assert.Equal(t, 1, auth, "a valid token must be reused")
	assert.Equal(t, 3, resource)
}

func TestExpiredTokenTriggersSingleReauth(t *testing.T) {
	stub := newPiholeStub()
	// Declared validity below the safety margin makes every cached token
	// count as expired on the next call.
	stub.validity = 1
	client := newTestClient(t, stub)
	ctx := context.Background()

	_, err := client.Blocking(ctx)
	require.NoError(t, err)
	_, err = client.Blocking(ctx)
	require.NoError(t, err)

	auth, _, resource := stub.counts()
	assert.Equal(t, 2, auth, "expiry must trigger exactly one re-authentication per call")
	assert.Equal(t, 2, resource, "the refreshed token must be used on the first attempt")
}

func TestRejectedTokenRetriedOnce(t *testing.T) {
	stub := newPiholeStub()
	stub.reject401 = 1
	client := newTestClient(t, stub)

	status, err := client.Blocking(context.Background())
	require.NoError(t, err, "a single 401 must be recovered transparently")
	assert.Equal(t, "enabled", status.Blocking)

	auth, _, resource := stub.counts()
	assert.Equal(t, 2, auth)
	assert.Equal(t, 1, resource)
}

func TestPersistentRejectionFailsAfterOneRetry(t *testing.T) {
	stub := newPiholeStub()
	stub.reject401 = 10
	client := newTestClient(t, stub)

	_, err := client.Blocking(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	assert.ErrorAs(t, err, &authErr)

	// One initial attempt plus exactly one retry.
	stub.mu.Lock()
	rejected := 10 - stub.reject401
	stub.mu.Unlock()
	assert.Equal(t, 2, rejected)
}

func TestRejectedCredentialsSkipResourceRequest(t *testing.T) {
	stub := newPiholeStub()
	stub.rejectLogin = true
	client := newTestClient(t, stub)

	_, err := client.Blocking(context.Background())
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.Contains(t, authErr.Message, "password incorrect")

	_, _, resource := stub.counts()
	assert.Equal(t, 0, resource, "no resource request may be sent when login fails")
}

func TestLogoutIsIdempotent(t *testing.T) {
	stub := newPiholeStub()
	client := newTestClient(t, stub)
	ctx := context.Background()

	_, err := client.Blocking(ctx)
	require.NoError(t, err)

	require.NoError(t, client.Logout(ctx))
	require.NoError(t, client.Logout(ctx))

	_, logout, _ := stub.counts()
	assert.Equal(t, 1, logout, "a second logout must not hit the network")
}

func TestLogoutWithoutSessionIsNoop(t *testing.T) {
	stub := newPiholeStub()
	client := newTestClient(t, stub)

	require.NoError(t, client.Logout(context.Background()))

	auth, logout, _ := stub.counts()
	assert.Equal(t, 0, auth)
	assert.Equal(t, 0, logout)
}

func TestResourceCallAfterLogoutReauthenticates(t *testing.T) {
	stub := newPiholeStub()
	client := newTestClient(t, stub)
	ctx := context.Background()

	_, err := client.Blocking(ctx)
	require.NoError(t, err)
	require.NoError(t, client.Logout(ctx))

	_, err = client.Blocking(ctx)
	require.NoError(t, err)

	auth, _, resource := stub.counts()
	assert.Equal(t, 2, auth, "exactly one fresh login must precede the next call")
	assert.Equal(t, 2, resource)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close() // connection refused from here on

	client, err := NewClient(server.URL, "secret", zerolog.Nop())
	require.NoError(t, err)

	_, err = client.Blocking(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
}

func TestAPIErrorCarriesServerPayload(t *testing.T) {
	stub := newPiholeStub()
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"key":     "bad_request",
				"message": "Invalid domain",
				"hint":    "no spaces allowed",
			},
		})
	}
	client := newTestClient(t, stub)

	_, err := client.Blocking(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "bad_request", apiErr.Key)
	assert.Equal(t, "Invalid domain", apiErr.Message)
	assert.Equal(t, "no spaces allowed", apiErr.Hint)
	assert.True(t, apiErr.IsBadRequest())
}

func TestCSRFHeaderAttached(t *testing.T) {
	stub := newPiholeStub()
	var gotCSRF string
	stub.resource = func(w http.ResponseWriter, r *http.Request) {
		gotCSRF = r.Header.Get("X-FTL-CSRF")
		json.NewEncoder(w).Encode(map[string]any{"blocking": "enabled"})
	}
	client := newTestClient(t, stub)

	_, err := client.Blocking(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "csrf-sid-1", gotCSRF)
}
