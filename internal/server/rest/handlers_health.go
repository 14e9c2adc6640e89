package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type DebugHandler struct {
	diagnostics Diagnostics
}

func NewDebugHandler(d Diagnostics) *DebugHandler {
	return &DebugHandler{diagnostics: d}
}

func (h *DebugHandler) HandleStorage(c echo.Context) error {
	report, err := h.diagnostics.Report(c.Request().Context(), userIDFrom(c))
	if err != nil {
		apiErr := defaultErrors.toAPIError(err)
		if apiErr.Status >= http.StatusInternalServerError {
			apiErr.Message = "Debug failed"
		}
		return apiErr
	}
	return c.JSON(http.StatusOK, report)
}
