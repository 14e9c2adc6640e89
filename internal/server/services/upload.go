package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/rolandocepedadev/ccat/internal/common"
)

// sniffLen is how many leading bytes are inspected to detect a content type.
const sniffLen = 3072

const genericContentType = "application/octet-stream"

// Upload is a payload received from a client.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

func (u *Upload) validate() error {
	if u == nil || u.Body == nil || u.Name == "" {
		return fmt.Errorf("%w: no file provided", common.ErrValidation)
	}
	if u.Size < 0 {
		return fmt.Errorf("%w: invalid file size", common.ErrValidation)
	}
	return nil
}

// resolveContentType keeps the client-declared type unless it is missing or
// generic, in which case the leading bytes are sniffed. Body is rewound
// so the sniffed bytes are still uploaded. Only avatars go through it.
func (u *Upload) resolveContentType() error {
	declared := strings.TrimSpace(u.ContentType)
	if declared != "" && declared != genericContentType {
		u.ContentType = declared
		return nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(u.Body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	u.ContentType = mimetype.Detect(head).String()
	u.Body = io.MultiReader(bytes.NewReader(head), u.Body)
	return nil
}

func (u *Upload) isImage() bool {
	return strings.HasPrefix(u.ContentType, "image/")
}
