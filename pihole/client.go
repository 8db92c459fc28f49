package pihole

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Client represents a Pi-hole 6 API client. One client owns one session
// against one base URL; the session is established lazily on the first
// authenticated call.
type Client struct {
	session *session
	logger  zerolog.Logger
}

// NewClient creates a new Pi-hole client. No network call is made until the
// first request; authentication happens on demand.
func NewClient(baseURL, password string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: pi-hole URL is required", ErrInvalidConfig)
	}

	// Ensure baseURL doesn't have trailing slash
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	options := &clientOptions{
		timeout:       30 * time.Second,
		sessionMargin: defaultSessionMargin,
		verifyCert:    true,
		userAgent:     "go-pihole6",
	}
	for _, opt := range opts {
		opt(options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
		if !options.verifyCert {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	return &Client{
		session: &session{
			baseURL:    baseURL,
			password:   password,
			userAgent:  options.userAgent,
			margin:     options.sessionMargin,
			httpClient: httpClient,
			logger:     logger,
		},
		logger: logger,
	}, nil
}

// do executes one request descriptor through the session manager.
func (c *Client) do(ctx context.Context, spec *requestSpec) ([]byte, error) {
	return c.session.do(ctx, spec)
}

// TestConnection verifies the client can authenticate and reach the API.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.Blocking(ctx); err != nil {
		return err
	}
	return nil
}

// Logout invalidates the current session on the server and clears local
// state. Calling it with no active session is a no-op; a later resource call
// simply authenticates again.
func (c *Client) Logout(ctx context.Context) error {
	return c.session.close(ctx)
}
