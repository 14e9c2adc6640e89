package rest

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rolandocepedadev/ccat/internal/common"
	"github.com/rolandocepedadev/ccat/internal/logging"
)

const userIDKey = "user_id"

// TokenVerifier resolves an access token to the id of the user it was
// issued to.
type TokenVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

// Authenticate requires a valid "Authorization: Bearer <token>" header and
// stores the caller's id on the context.
func Authenticate(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(common.AuthorizationHeader)
			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				return notAuthenticated(nil)
			}

			userID, err := verifier.VerifyAccessToken(strings.TrimSpace(token))
			if err != nil {
				return defaultErrors.toAPIError(err)
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

// userIDFrom returns the authenticated caller, or "" on public routes.
func userIDFrom(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}

func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

// requestLogger writes one access log line per request.
func requestLogger(logger logging.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		HandleError:  true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info(c.Request().Context(), "request",
				"request_id", v.RequestID,
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency.String(),
				"user_id", userIDFrom(c),
			)
			return nil
		},
	})
}
