package client

import (
	"context"
	"net/http"

	"github.com/rolandocepedadev/ccat/internal/client/models"
)

func (c *APIClient) Profile(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/profile", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) UpdateProfile(ctx context.Context, firstName, lastName string) (*models.Profile, error) {
	var out models.Profile
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   "/api/profile",
		auth:   true,
		body:   jsonBody(map[string]string{"first_name": firstName, "last_name": lastName}),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) UploadAvatar(ctx context.Context, p Payload) (*models.Profile, error) {
	var out models.Profile
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/profile/avatar",
		auth:   true,
		body:   multipartFile(p, nil),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) AvatarURL(ctx context.Context) (*models.SignedURL, error) {
	var out models.SignedURL
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/profile/avatar/url", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ChangePassword(ctx context.Context, newPassword, confirm string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/profile/password",
		auth:   true,
		body:   jsonBody(map[string]string{"new_password": newPassword, "confirm_password": confirm}),
	}, nil)
}

// StorageReport fetches the storage diagnostics for the signed-in user.
func (c *APIClient) StorageReport(ctx context.Context) (*models.StorageReport, error) {
	var out models.StorageReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/debug/storage", auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
