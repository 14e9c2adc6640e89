package client

import (
	"context"
	"net/http"

	"github.com/rolandocepedadev/ccat/internal/client/models"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns its id. It does not sign in.
func (c *APIClient) Register(ctx context.Context, email, password string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   jsonBody(credentials{Email: email, Password: password}),
	}, &out)
	return out.ID, err
}

func (c *APIClient) Login(ctx context.Context, email, password string) error {
	var pair models.TokenPair
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   jsonBody(credentials{Email: email, Password: password}),
	}, &pair)
	if err != nil {
		return err
	}
	c.storeTokens(pair)
	return nil
}

// Logout revokes the refresh token server-side. Local tokens are dropped
// even when the server cannot be reached.
func (c *APIClient) Logout(ctx context.Context) error {
	rt := c.Tokens().RefreshToken
	c.SetTokens(models.TokenPair{})
	if rt == "" {
		return nil
	}
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		body:   jsonBody(map[string]string{"refresh_token": rt}),
	}, nil)
}
