package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/microstore/auth-platform/internal/api/metrics"
	"github.com/microstore/auth-platform/internal/core/token"
)

const bearerPrefix = "Bearer "

// Auth is the gateway validation filter: every request through it must carry
// a verifiable bearer token. A missing header is rejected before the codec is
// invoked; all verification failures (signature, expiry, malformed) collapse
// into one external message so callers cannot probe which check failed.
// Claims are injected into the request context for downstream handlers.
func Auth(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization Header")
			}

			if !strings.HasPrefix(authHeader, bearerPrefix) {
				metrics.TokenVerificationsTotal.WithLabelValues("malformed").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Token or Expired")
			}

			claims, err := codec.Verify(authHeader[len(bearerPrefix):], time.Now().UTC())
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues(verifyResult(err)).Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Token or Expired")
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()

			c.Set("username", claims.Username)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)

			return next(c)
		}
	}
}

// verifyResult maps a verification error to a metric label. The distinction
// never reaches the HTTP response.
func verifyResult(err error) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return "expired"
	case errors.Is(err, token.ErrMalformed):
		return "malformed"
	default:
		return "invalid"
	}
}
