// Package session persists the signed-in state of the CLI in a local SQLite
// database so a login survives restarts.
//
// Layout
//
// A single key/value table "session" holds raw values. Store layers the
// token pair and the account email on top of it:
//
//	access_token   JWT access token
//	refresh_token  opaque refresh token
//	email          address used for the last successful login
//
// Missing keys read as empty values, never as errors.
package session

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
