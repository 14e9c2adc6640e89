package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
)

// APIClient is the HTTP client of the ccat API.
type APIClient struct {
	baseURL string
	http    *http.Client
	logger  logging.Logger

	mu     sync.Mutex
	tokens models.TokenPair

	// refreshMu serializes token rotation.
	refreshMu sync.Mutex

	// OnTokens, when set, is called after every login or refresh.
	OnTokens func(models.TokenPair)
}

func New(baseURL string, httpClient *http.Client, l logging.Logger) *APIClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  l.With("module", "client"),
	}
}

func (c *APIClient) SetTokens(p models.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = p
}

func (c *APIClient) Tokens() models.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tokens
}

// Authenticated reports whether a session is present.
func (c *APIClient) Authenticated() bool {
	t := c.Tokens()
	return t.AccessToken != "" || t.RefreshToken != ""
}

func (c *APIClient) storeTokens(p models.TokenPair) {
	c.SetTokens(p)
	if c.OnTokens != nil {
		c.OnTokens(p)
	}
}

// request describes one API call. body builds a fresh payload for every
// attempt so the call can be replayed after a token refresh.
type request struct {
	method string
	path   string
	auth   bool
	body   func() (io.ReadCloser, string, error)
	// accept lists the success codes; empty means any 2xx.
	accept []int
}

func (r request) accepts(code int) bool {
	if len(r.accept) == 0 {
		return code >= 200 && code <= 299
	}
	return slices.Contains(r.accept, code)
}

func jsonBody(v any) func() (io.ReadCloser, string, error) {
	return func() (io.ReadCloser, string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return io.NopCloser(bytes.NewReader(b)), "application/json", nil
	}
}

// send performs r and returns the response when its status is accepted.
// The caller closes the body.
func (c *APIClient) send(ctx context.Context, r request) (*http.Response, error) {
	used := c.Tokens().RefreshToken
	resp, err := c.attempt(ctx, r)
	if err != nil {
		return nil, err
	}

	if r.auth && resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		if rerr := c.refresh(ctx, used); rerr != nil {
			return nil, rerr
		}
		resp, err = c.attempt(ctx, r)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return nil, ErrUnauthorized
		}
	}

	if !r.accepts(resp.StatusCode) {
		defer drain(resp)
		return nil, statusError(resp)
	}
	return resp, nil
}

func (c *APIClient) attempt(ctx context.Context, r request) (*http.Response, error) {
	var (
		body        io.ReadCloser
		contentType string
	)
	if r.body != nil {
		var err error
		body, contentType, err = r.body()
		if err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, body)
	if err != nil {
		if body != nil {
			_ = body.Close()
		}
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.auth {
		token := c.Tokens().AccessToken
		if token == "" && c.Tokens().RefreshToken == "" {
			if body != nil {
				_ = body.Close()
			}
			return nil, ErrUnauthorized
		}
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return resp, nil
}

// refresh rotates the token pair that held the refresh token used. Callers
// that lost the race find the pair already rotated and only replay. Any
// rejection ends the session.
func (c *APIClient) refresh(ctx context.Context, used string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	rt := c.Tokens().RefreshToken
	if rt == "" {
		return ErrUnauthorized
	}
	if rt != used {
		return nil
	}

	resp, err := c.attempt(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		body:   jsonBody(map[string]string{"refresh_token": rt}),
	})
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug(ctx, "token refresh rejected", "status", resp.StatusCode)
		c.SetTokens(models.TokenPair{})
		return ErrUnauthorized
	}

	var pair models.TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return fmt.Errorf("decode tokens: %w", err)
	}
	c.storeTokens(pair)
	c.logger.Debug(ctx, "tokens refreshed")
	return nil
}

// do sends r and decodes a JSON response into out when out is not nil.
func (c *APIClient) do(ctx context.Context, r request, out any) error {
	resp, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	defer drain(resp)

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	return &StatusError{Code: resp.StatusCode, Message: body.Message}
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// Ping checks that the server answers /health.
func (c *APIClient) Ping(ctx context.Context) error {
	return c.do(ctx, request{method: http.MethodGet, path: "/health"}, nil)
}
