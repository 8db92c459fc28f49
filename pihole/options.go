package pihole

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout       time.Duration
	httpClient    *http.Client
	sessionMargin time.Duration
	verifyCert    bool
	userAgent     string
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient sets a custom HTTP client. It overrides WithTimeout and
// WithInsecureSkipVerify.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithSessionMargin sets the safety margin subtracted from the session TTL
// before a token is considered expired, so a request never races the
// server-side expiry.
func WithSessionMargin(margin time.Duration) Option {
	return func(o *clientOptions) {
		if margin >= 0 {
			o.sessionMargin = margin
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithInsecureSkipVerify disables certificate verification.
// Use with caution and only for development/testing.
func WithInsecureSkipVerify() Option {
	return func(o *clientOptions) {
		o.verifyCert = false
	}
}
