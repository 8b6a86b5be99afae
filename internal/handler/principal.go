package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"questboard/internal/auth"
	"questboard/internal/errors"
	"questboard/internal/service"
)

// CurrentUserID returns the authenticated principal set by the JWT
// middleware. Handlers receive the identity through this single helper
// instead of re-deriving it from raw headers.
func CurrentUserID(c echo.Context) (uint, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.UserID == 0 {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}
	return claims.UserID, nil
}

// BlacklistGuard rejects access tokens revoked by logout. Runs after the
// JWT middleware has verified the signature.
func BlacklistGuard(blacklist auth.TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			if revoked, _ := blacklist.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID); revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}
			return next(c)
		}
	}
}

// AdminGuard restricts a route group to admin users.
func AdminGuard(userService service.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := CurrentUserID(c)
			if err != nil {
				return err
			}
			isAdmin, err := userService.IsAdmin(c.Request().Context(), userID)
			if err != nil {
				return httpError(err)
			}
			if !isAdmin {
				return httpError(errors.ErrForbidden)
			}
			return next(c)
		}
	}
}

// httpError translates a domain error through the shared taxonomy.
func httpError(err error) *echo.HTTPError {
	he := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(he.StatusCode, he.ToErrorResponse())
}
