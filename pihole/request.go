package pihole

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// requestSpec describes one Pi-hole API call: method, path relative to the
// /api root, optional query parameters and body. Resource methods build
// exactly one spec per call and hand it to the session for execution.
type requestSpec struct {
	method string
	path   string
	query  url.Values

	// body is JSON-encoded when non-nil. rawBody takes precedence and is
	// sent verbatim with contentType (teleporter upload).
	body        any
	rawBody     []byte
	contentType string

	// binary endpoints download an opaque byte stream; the request
	// advertises octet-stream instead of JSON.
	binary bool
}

// encode returns the request body bytes and content type. The bytes are
// buffered so a request can be resent after a re-authentication.
func (r *requestSpec) encode() ([]byte, string, error) {
	if r.rawBody != nil {
		return r.rawBody, r.contentType, nil
	}
	if r.body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(r.body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return data, "application/json", nil
}

// url assembles the absolute request URL under the API root.
func (r *requestSpec) url(baseURL string) string {
	u := fmt.Sprintf("%s/api/%s", baseURL, r.path)
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

// httpRequest builds the http.Request for this spec.
func (r *requestSpec) httpRequest(ctx context.Context, baseURL, userAgent string) (*http.Request, error) {
	data, contentType, err := r.encode()
	if err != nil {
		return nil, err
	}

	var body *bytes.Reader
	if data != nil {
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, r.url(baseURL), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.binary {
		req.Header.Set("Accept", "application/octet-stream")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	return req, nil
}
