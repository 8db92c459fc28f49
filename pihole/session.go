package pihole

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// defaultSessionMargin is subtracted from the server-declared token validity
// so a request never races the server-side expiry.
const defaultSessionMargin = 5 * time.Second

// session owns the authenticated state for one Pi-hole base URL: it performs
// the login call lazily, caches the session token and its TTL, transparently
// re-authenticates when the token has aged out or the server returns 401, and
// performs logout. At most one re-authentication happens per request; if that
// fails the request fails with an AuthError.
type session struct {
	baseURL    string
	password   string
	userAgent  string
	margin     time.Duration
	httpClient *http.Client
	logger     zerolog.Logger

	// Token state. The mutex keeps a shared client from tearing reads;
	// callers racing during expiry may still trigger a redundant but
	// harmless re-authentication.
	mu        sync.Mutex
	sid       string
	csrf      string
	createdAt time.Time
	validity  time.Duration
}

// authResponse mirrors the payload of POST /api/auth.
type authResponse struct {
	Session struct {
		Valid    bool   `json:"valid"`
		TOTP     bool   `json:"totp"`
		SID      string `json:"sid"`
		CSRF     string `json:"csrf"`
		Validity int    `json:"validity"`
		Message  string `json:"message"`
	} `json:"session"`
	Took float64 `json:"took"`
}

// apiErrorBody mirrors the error envelope Pi-hole wraps around non-2xx
// responses.
type apiErrorBody struct {
	Error struct {
		Key     string  `json:"key"`
		Message string  `json:"message"`
		Hint    *string `json:"hint"`
	} `json:"error"`
	Took float64 `json:"took"`
}

// authenticate performs the login call and stores the returned token state.
// An empty password is still posted; Pi-hole issues a valid session when no
// password is configured.
func (s *session) authenticate(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{"password": s.password})
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	spec := &requestSpec{
		method:      http.MethodPost,
		path:        "auth",
		rawBody:     payload,
		contentType: "application/json",
	}
	req, err := spec.httpRequest(ctx, s.baseURL, s.userAgent)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read login response: %w", err)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return fmt.Errorf("failed to parse login response: %w", err)
	}

	if resp.StatusCode != http.StatusOK || !auth.Session.Valid {
		s.clearLocked()
		return &AuthError{
			StatusCode: resp.StatusCode,
			Message:    auth.Session.Message,
		}
	}

	s.sid = auth.Session.SID
	s.csrf = auth.Session.CSRF
	s.createdAt = time.Now()
	s.validity = time.Duration(auth.Session.Validity) * time.Second

	s.logger.Debug().
		Int("validity_seconds", auth.Session.Validity).
		Msg("Authenticated against Pi-hole")

	return nil
}

// expiredLocked reports whether the cached token is missing or has aged past
// its declared validity minus the safety margin. Callers hold s.mu.
func (s *session) expiredLocked() bool {
	if s.sid == "" {
		return true
	}
	return time.Since(s.createdAt) >= s.validity-s.margin
}

// token guarantees a currently-valid token before a request goes out,
// authenticating at most once, and returns the sid/csrf pair to attach.
func (s *session) token(ctx context.Context) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.expiredLocked() {
		if err := s.authenticate(ctx); err != nil {
			return "", "", err
		}
	}
	return s.sid, s.csrf, nil
}

// refresh replaces a token the server rejected mid-flight. When another
// caller already re-authenticated, the fresh token is reused instead of
// logging in again.
func (s *session) refresh(ctx context.Context, rejected string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sid == rejected || s.sid == "" {
		s.clearLocked()
		if err := s.authenticate(ctx); err != nil {
			return "", "", err
		}
	}
	return s.sid, s.csrf, nil
}

// clearLocked drops the local token state. Callers hold s.mu.
func (s *session) clearLocked() {
	s.sid = ""
	s.csrf = ""
	s.createdAt = time.Time{}
	s.validity = 0
}

// do executes one API call described by spec: it ensures a valid session,
// sends the request with the token attached, and retries exactly once after
// re-authenticating if the server rejects the token mid-flight. Non-2xx
// business responses come back as *APIError; transport and auth failures are
// the only faults.
func (s *session) do(ctx context.Context, spec *requestSpec) ([]byte, error) {
	sid, csrf, err := s.token(ctx)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		req, err := spec.httpRequest(ctx, s.baseURL, s.userAgent)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-FTL-SID", sid)
		if csrf != "" {
			req.Header.Set("X-FTL-CSRF", csrf)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			s.logger.Debug().
				Str("path", spec.path).
				Msg("Session rejected, re-authenticating")
			sid, csrf, err = s.refresh(ctx, sid)
			if err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, decodeAPIError(resp.StatusCode, body)
		}

		return body, nil
	}
}

// decodeAPIError turns a non-2xx response into the matching error value.
func decodeAPIError(status int, body []byte) error {
	var payload apiErrorBody
	if err := json.Unmarshal(body, &payload); err != nil || payload.Error.Message == "" && payload.Error.Key == "" {
		if status == http.StatusUnauthorized {
			return &AuthError{StatusCode: status}
		}
		return &APIError{StatusCode: status, Message: string(body)}
	}

	if status == http.StatusUnauthorized {
		return &AuthError{StatusCode: status, Message: payload.Error.Message}
	}

	apiErr := &APIError{
		StatusCode: status,
		Key:        payload.Error.Key,
		Message:    payload.Error.Message,
	}
	if payload.Error.Hint != nil {
		apiErr.Hint = *payload.Error.Hint
	}
	return apiErr
}

// close invalidates the server-side token and clears local state. It is
// idempotent: with no active session it performs no network call.
func (s *session) close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sid == "" {
		return nil
	}

	spec := &requestSpec{method: http.MethodDelete, path: "auth"}
	req, err := spec.httpRequest(ctx, s.baseURL, s.userAgent)
	if err != nil {
		return err
	}
	req.Header.Set("X-FTL-SID", s.sid)
	if s.csrf != "" {
		req.Header.Set("X-FTL-CSRF", s.csrf)
	}

	// Local state is dropped regardless of the outcome; a token the server
	// no longer recognizes is gone either way.
	s.clearLocked()

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	s.logger.Debug().Msg("Closed Pi-hole session")
	return nil
}
