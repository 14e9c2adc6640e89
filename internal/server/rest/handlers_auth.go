package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type registerResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthHandler struct {
	accounts Accounts
}

func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// bindAndValidate decodes the JSON body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("Invalid request body", err)
	}
	if err := c.Validate(req); err != nil {
		return defaultErrors.toAPIError(err)
	}
	return nil
}

func (h *AuthHandler) HandleRegister(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.accounts.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return defaultErrors.toAPIError(err)
	}
	return c.JSON(http.StatusCreated, registerResponse{ID: u.ID, Email: u.Email})
}

func (h *AuthHandler) HandleLogin(c echo.Context) error {
	var req credentialsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.accounts.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		apiErr := defaultErrors.toAPIError(err)
		if apiErr.Status == http.StatusUnauthorized {
			apiErr.Message = "Invalid email or password"
		}
		return apiErr
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) HandleRefresh(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	pair, err := h.accounts.RefreshToken(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return defaultErrors.toAPIError(err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) HandleLogout(c echo.Context) error {
	var req refreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.accounts.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return defaultErrors.toAPIError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
