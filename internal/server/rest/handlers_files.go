package rest

import (
	"errors"
	"mime"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rolandocepedadev/ccat/internal/server/services"
)

type starRequest struct {
	Starred *bool `json:"starred" validate:"required"`
}

type FileHandler struct {
	files Files
}

func NewFileHandler(files Files) *FileHandler {
	return &FileHandler{files: files}
}

// formUpload opens the multipart "file" field of the request. The caller
// must close the returned body.
func formUpload(c echo.Context) (services.Upload, func() error, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return services.Upload{}, nil, badRequest("No file provided", err)
		}
		return services.Upload{}, nil, badRequest("Invalid upload", err)
	}

	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, nil, badRequest("Invalid upload", err)
	}

	return services.Upload{
		Name:        fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Body:        f,
	}, f.Close, nil
}

func (h *FileHandler) HandleList(c echo.Context) error {
	files, err := h.files.List(c.Request().Context(), userIDFrom(c))
	if err != nil {
		return fileReadErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, files)
}

func (h *FileHandler) HandleCreate(c echo.Context) error {
	up, closeBody, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeBody()

	rec, err := h.files.Create(c.Request().Context(), userIDFrom(c), up)
	if err != nil {
		return fileCreateErrors.toAPIError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *FileHandler) HandleDelete(c echo.Context) error {
	if err := h.files.Delete(c.Request().Context(), userIDFrom(c), c.Param("id")); err != nil {
		return fileDeleteErrors.toAPIError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FileHandler) HandleDownload(c echo.Context) error {
	rec, body, err := h.files.Open(c.Request().Context(), userIDFrom(c), c.Param("id"))
	if err != nil {
		return fileReadErrors.toAPIError(err)
	}
	defer body.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": rec.Name}))
	contentType := rec.MimeType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, contentType, body)
}

func (h *FileHandler) HandleSignedURL(c echo.Context) error {
	u, err := h.files.SignedURL(c.Request().Context(), userIDFrom(c), c.Param("id"))
	if err != nil {
		return fileReadErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *FileHandler) HandleStar(c echo.Context) error {
	var req starRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	rec, err := h.files.SetStarred(c.Request().Context(), userIDFrom(c), c.Param("id"), *req.Starred)
	if err != nil {
		return fileStarErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, rec)
}
