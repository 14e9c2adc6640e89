// Package client talks to the ccat HTTP API on behalf of the CLI.
//
// # Overview
//
// APIClient wraps net/http with the conventions of the API: bearer access
// tokens, JSON bodies, {"message": "..."} error bodies and streaming
// multipart uploads. When an authenticated request comes back 401 and a
// refresh token is known, the client rotates the token pair once and
// replays the request. Rotated pairs are reported through the OnTokens hook
// so the caller can persist them.
//
// # Error Handling
//
// Callers match errors with errors.Is / errors.As:
//
//   - ErrUnavailable: the request never produced an HTTP response.
//   - ErrUnauthorized: no session, or the refresh token was rejected.
//   - *StatusError: any other non-2xx response, carrying the server message.
//
// # Concurrency
//
// APIClient is safe for concurrent use; the token pair is guarded by a mutex.
package client
