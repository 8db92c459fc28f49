// Package pihole provides a client for the Pi-hole 6 REST API.
//
// The client authenticates lazily: the first resource call logs in with the
// configured password, caches the session token and its TTL, and every later
// call reuses that token until it nears expiry or the server rejects it, at
// which point exactly one re-authentication happens before the call proceeds.
//
// # Usage
//
// Create a client with the Pi-hole base URL and password:
//
//	logger := zerolog.New(os.Stdout)
//	client, err := pihole.NewClient(
//		"https://pi.hole",
//		"your-password",
//		logger,
//		pihole.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Logout(context.Background())
//
//	summary, err := client.Summary(context.Background())
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
// Three kinds of failure are kept apart:
//
//   - transport failures (connection refused, timeout, malformed response)
//     are returned as wrapped errors
//   - credential rejection is returned as *AuthError
//   - every other non-2xx response is returned as *APIError carrying the
//     server's own error payload (key, message, hint)
//
// APIError is data more than fault: Pi-hole reports things like duplicate
// entries or invalid domain syntax through it, and callers can inspect the
// payload with errors.As:
//
//	var apiErr *pihole.APIError
//	if errors.As(err, &apiErr) && apiErr.IsBadRequest() {
//		// inspect apiErr.Key, apiErr.Message, apiErr.Hint
//	}
package pihole
