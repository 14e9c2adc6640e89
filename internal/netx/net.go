// Package netx holds the streaming helpers the API client uses for uploads.
package netx

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// ProgressReader reports every read from R to OnRead with the running
// byte count.
type ProgressReader struct {
	R      io.Reader
	Total  int64
	OnRead func(sent, total int64)

	sent int64
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.R.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.OnRead != nil {
			p.OnRead(p.sent, p.Total)
		}
	}
	return n, err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// MultipartBody streams src as the single file field of a multipart form
// without buffering it. It returns the body and the Content-Type header to
// send with it. A read error from src surfaces as a read error on the body.
// Closing the body stops the writer goroutine.
func MultipartBody(field, filename, contentType string, src io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	header := mw.FormDataContentType()

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, src)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, header
}
