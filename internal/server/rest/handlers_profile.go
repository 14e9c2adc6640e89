package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type profileRequest struct {
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

type passwordRequest struct {
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type ProfileHandler struct {
	profiles Profiles
}

func NewProfileHandler(profiles Profiles) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) HandleGet(c echo.Context) error {
	p, err := h.profiles.Get(c.Request().Context(), userIDFrom(c))
	if err != nil {
		return profileErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) HandleUpdate(c echo.Context) error {
	var req profileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.profiles.Update(c.Request().Context(), userIDFrom(c), req.FirstName, req.LastName)
	if err != nil {
		return profileErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) HandleUploadAvatar(c echo.Context) error {
	up, closeBody, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeBody()

	p, err := h.profiles.UploadAvatar(c.Request().Context(), userIDFrom(c), up)
	if err != nil {
		return profileErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) HandleAvatarURL(c echo.Context) error {
	u, err := h.profiles.AvatarURL(c.Request().Context(), userIDFrom(c))
	if err != nil {
		return profileErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *ProfileHandler) HandleChangePassword(c echo.Context) error {
	var req passwordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	err := h.profiles.ChangePassword(c.Request().Context(), userIDFrom(c), req.NewPassword, req.ConfirmPassword)
	if err != nil {
		return profileErrors.toAPIError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
