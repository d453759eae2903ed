package middleware

import (
	"account-storefront/internal/apperr"
	"strings"

	"github.com/labstack/echo/v4"
)

const AdminContextKey = "admin_username"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AdminAuth requires an "Authorization: Bearer <token>" header issued by the admin login.
func AdminAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return apperr.ErrUnauthorized
			}

			username, err := verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				return err
			}

			c.Set(AdminContextKey, username)
			return next(c)
		}
	}
}
