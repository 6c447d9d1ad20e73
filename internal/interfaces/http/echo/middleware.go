package echo

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// UserHeader carries the authenticated user name set by the fronting proxy.
const UserHeader = "X-User"

const userContextKey = "user"

func RequireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := strings.TrimSpace(c.Request().Header.Get(UserHeader))
			if user == "" {
				return respondError(c, http.StatusUnauthorized, "unauthenticated", UserHeader+" header is required")
			}
			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

func userFrom(c echo.Context) string {
	user, _ := c.Get(userContextKey).(string)
	return user
}
