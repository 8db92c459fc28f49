package pihole

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig indicates invalid client configuration
var ErrInvalidConfig = errors.New("invalid pi-hole configuration")

// AuthError indicates that Pi-hole rejected the configured credential,
// either at login or when a request forced a re-authentication.
type AuthError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pi-hole authentication failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("pi-hole authentication failed: status %d: %s", e.StatusCode, e.Message)
}

// APIError represents a well-formed error response from a Pi-hole resource
// endpoint. It mirrors the server's error payload so callers can inspect the
// server's own vocabulary (key, message, hint) via errors.As. Transport and
// authentication failures are never reported as APIError.
type APIError struct {
	StatusCode int
	Key        string
	Message    string
	Hint       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("pi-hole API error: status %d: %s: %s", e.StatusCode, e.Key, e.Message)
	}
	return fmt.Sprintf("pi-hole API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsBadRequest checks if the error indicates a rejected request payload
func (e *APIError) IsBadRequest() bool {
	return e.StatusCode == 400
}
