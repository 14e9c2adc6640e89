package client

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"

	"github.com/rolandocepedadev/ccat/internal/client/models"
	"github.com/rolandocepedadev/ccat/internal/filex"
	"github.com/rolandocepedadev/ccat/internal/netx"
)

// Payload is one local file to send as a multipart upload. Open is called
// once per attempt.
type Payload struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type sourceBody struct {
	io.ReadCloser
	src io.Closer
}

func (b sourceBody) Close() error {
	err := b.ReadCloser.Close()
	if cerr := b.src.Close(); err == nil {
		err = cerr
	}
	return err
}

func multipartFile(p Payload, progress func(sent, total int64)) func() (io.ReadCloser, string, error) {
	return func() (io.ReadCloser, string, error) {
		src, err := p.Open()
		if err != nil {
			return nil, "", fmt.Errorf("open %s: %w", p.Name, err)
		}
		pr := &netx.ProgressReader{R: src, Total: p.Size, OnRead: progress}
		body, ct := netx.MultipartBody("file", p.Name, p.ContentType, pr)
		return sourceBody{ReadCloser: body, src: src}, ct, nil
	}
}

func filePath(id string, suffix string) string {
	return "/api/files/" + url.PathEscape(id) + suffix
}

func (c *APIClient) ListFiles(ctx context.Context) ([]models.File, error) {
	var out []models.File
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/files", auth: true}, &out)
	return out, err
}

// UploadFile streams p to the server. progress receives the payload bytes
// sent so far; it may restart from zero if the request is replayed after a
// token refresh.
func (c *APIClient) UploadFile(ctx context.Context, p Payload, progress func(sent, total int64)) (*models.File, error) {
	var out models.File
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/files",
		auth:   true,
		body:   multipartFile(p, progress),
		accept: []int{http.StatusOK, http.StatusCreated},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) DeleteFile(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: filePath(id, ""), auth: true}, nil)
}

func (c *APIClient) SetStarred(ctx context.Context, id string, starred bool) (*models.File, error) {
	var out models.File
	err := c.do(ctx, request{
		method: http.MethodPut,
		path:   filePath(id, "/star"),
		auth:   true,
		body:   jsonBody(map[string]bool{"starred": starred}),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) SignedURL(ctx context.Context, id string) (*models.SignedURL, error) {
	var out models.SignedURL
	if err := c.do(ctx, request{method: http.MethodGet, path: filePath(id, "/url"), auth: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download saves the file into dir under the name the server reports and
// returns the local path. Existing files are never overwritten.
func (c *APIClient) Download(ctx context.Context, id, dir string) (string, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: filePath(id, "/download"), auth: true})
	if err != nil {
		return "", err
	}
	defer drain(resp)

	name := id
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = filex.SafeName(params["filename"], id)
	}

	dir, err = filex.EnsureDir(dir)
	if err != nil {
		return "", err
	}
	f, err := filex.CreateUnique(dir, name)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
