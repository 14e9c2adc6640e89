package rest

import (
	"errors"
	"fmt"
	"net/http"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
)

// APIError is written to the client as {"message": "..."}. Cause is only
// logged.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Cause)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

func NewAPIError(status int, message string, cause error) *APIError {
	return &APIError{Status: status, Message: message, Cause: cause}
}

func notAuthenticated(cause error) *APIError {
	return NewAPIError(http.StatusUnauthorized, "Not authenticated", cause)
}

func badRequest(message string, cause error) *APIError {
	return NewAPIError(http.StatusBadRequest, message, cause)
}

// errorContext tunes how service errors surface on a given route. Storage
// and persistence failures are reported as 400 on file mutations and as
// 500 elsewhere.
type errorContext struct {
	notFound       string
	backendStatus  int
	backendMessage string
}

var (
	fileCreateErrors = errorContext{"File not found", http.StatusBadRequest, "Error uploading file"}
	fileDeleteErrors = errorContext{"File not found", http.StatusBadRequest, "Error deleting file"}
	fileStarErrors   = errorContext{"File not found", http.StatusBadRequest, "Error updating file"}
	fileReadErrors   = errorContext{"File not found", http.StatusInternalServerError, "Error fetching files"}
	profileErrors    = errorContext{"Avatar not found", http.StatusInternalServerError, "Error updating profile"}
	defaultErrors    = errorContext{"Not found", http.StatusInternalServerError, "Internal server error"}
)

// toAPIError maps a service error onto a status and client message.
func (ec errorContext) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		return badRequest(upperFirst(common.Reason(err, common.ErrValidation)), err)
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return NewAPIError(http.StatusUnauthorized, "Refresh token expired", err)
	case errors.Is(err, common.ErrTokenExpired):
		return NewAPIError(http.StatusUnauthorized, "Token expired", err)
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return notAuthenticated(err)
	case errors.Is(err, common.ErrorNotFound):
		return NewAPIError(http.StatusNotFound, ec.notFound, err)
	case errors.Is(err, common.ErrForbidden):
		return NewAPIError(http.StatusForbidden, "Forbidden", err)
	case errors.Is(err, common.ErrAlreadyExists):
		return NewAPIError(http.StatusConflict, "Account already exists", err)
	case errors.Is(err, common.ErrUploadFailed),
		errors.Is(err, common.ErrStorage),
		errors.Is(err, common.ErrPersistence):
		return NewAPIError(ec.backendStatus, ec.backendMessage, err)
	default:
		return NewAPIError(http.StatusInternalServerError, "Internal server error", err)
	}
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ErrorHandler renders every error returned by a handler or middleware and
// logs it with the request id, caller and route.
//
//	e.HTTPErrorHandler = rest.ErrorHandler(logger)
func ErrorHandler(logger logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *APIError
		var httpErr *echo.HTTPError
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &httpErr):
			apiErr = NewAPIError(httpErr.Code, fmt.Sprint(httpErr.Message), httpErr.Internal)
		default:
			apiErr = defaultErrors.toAPIError(err)
		}

		ctx := c.Request().Context()
		kv := []any{
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"user_id", userIDFrom(c),
			"route", c.Request().Method + " " + c.Path(),
			"status", apiErr.Status,
		}
		if apiErr.Cause != nil {
			kv = append(kv, "error", apiErr.Cause.Error())
		}
		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error(ctx, apiErr.Message, kv...)
		} else {
			logger.Warn(ctx, apiErr.Message, kv...)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(apiErr.Status)
		} else {
			writeErr = c.JSON(apiErr.Status, apiErr)
		}
		if writeErr != nil {
			logger.Error(ctx, "write error response", "error", writeErr)
		}
	}
}
