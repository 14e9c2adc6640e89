// Package upload implements the client upload queue: local files are
// enqueued as tasks and submitted one after another, with per-task status
// and byte-level progress.
package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/rolandocepedadev/ccat/internal/client/models"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

const (
	msgUploadFailed = "Upload failed"
	msgNetworkError = "Network error"
	msgCancelled    = "Upload cancelled"
)

// Source is a local payload. Open is called once per upload attempt.
type Source struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// FileSource describes the file at path. The content type is sniffed from
// the file's first bytes.
func FileSource(path string) (Source, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	if fi.IsDir() {
		return Source{}, fmt.Errorf("%s is a directory", path)
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("detect %s: %w", path, err)
	}

	return Source{
		Name:        filepath.Base(path),
		Size:        fi.Size(),
		ContentType: mt.String(),
		Open:        func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// Task tracks one queued upload. Error is set only when Status is
// StatusError and Result only when it is StatusSuccess.
type Task struct {
	ID       string
	Source   Source
	Status   Status
	Progress int
	Error    string
	Result   *models.File
}
