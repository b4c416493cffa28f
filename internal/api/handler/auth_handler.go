package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/microstore/auth-platform/internal/api/metrics"
	"github.com/microstore/auth-platform/internal/core/domain"
	"github.com/microstore/auth-platform/internal/core/ports"
)

// AuthHandler handles login and password-change requests.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a user and returns a signed token.
//
// Unknown username and wrong password both map to the same 401 response so
// the endpoint cannot be used to enumerate usernames.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /api-auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	signed, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.LoginsTotal.WithLabelValues("user_not_found").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		case errors.Is(err, domain.ErrPasswordIncorrect):
			metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		case errors.Is(err, domain.ErrTooManyAttempts):
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, tokenResponse{Token: signed})
}

// ChangePassword rotates the password of the path-scoped user.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Param        username  path  string                 true  "Username"
// @Param        body      body  changePasswordRequest  true  "Password change details"
// @Success      204
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api-auth/change-password/{username} [patch]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	username := c.Param("username")

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	err := h.authService.ChangePassword(c.Request().Context(), username, ports.ChangePasswordInput{
		OldPassword:     req.OldPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		metrics.PasswordChangesTotal.WithLabelValues(passwordChangeResult(err)).Inc()
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrOldPasswordIncorrect),
			errors.Is(err, domain.ErrPasswordReused),
			errors.Is(err, domain.ErrConfirmMismatch):
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}

	metrics.PasswordChangesTotal.WithLabelValues("success").Inc()
	return c.NoContent(http.StatusNoContent)
}

func passwordChangeResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrOldPasswordIncorrect):
		return "old_password_incorrect"
	case errors.Is(err, domain.ErrPasswordReused):
		return "password_reused"
	case errors.Is(err, domain.ErrConfirmMismatch):
		return "confirm_mismatch"
	default:
		return "error"
	}
}
