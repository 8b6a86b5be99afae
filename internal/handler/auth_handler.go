package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"questboard/internal/auth"
	"questboard/internal/errors"
	"questboard/internal/service"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/auth/refresh"
)

// AuthHandler handles authentication endpoints. The refresh token travels
// only in an HttpOnly cookie scoped to the refresh path; response bodies
// carry access tokens exclusively.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies should be true
// in production so the refresh cookie is HTTPS-only.
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,max=50"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Login godoc
// @Summary Login and receive an access token; the refresh token is set as an HttpOnly cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	accessToken, refreshToken, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	h.setRefreshCookie(c, refreshToken)
	return c.JSON(http.StatusOK, map[string]string{
		"accessToken": accessToken,
	})
}

// Refresh godoc
// @Summary Rotate the refresh token and receive a new access token
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	presented := h.refreshCookieValue(c)
	if presented == "" {
		return httpError(errors.ErrNoRefreshToken)
	}

	accessToken, newRefreshToken, err := h.authService.Refresh(c.Request().Context(), presented)
	if err != nil {
		// A rejected or reused token is dead either way; drop the cookie
		// so the client falls back to a full login.
		h.clearRefreshCookie(c)
		return httpError(err)
	}

	h.setRefreshCookie(c, newRefreshToken)
	return c.JSON(http.StatusOK, map[string]string{
		"newAccessToken": accessToken,
	})
}

// Logout godoc
// @Summary Logout, revoking the session server-side best effort
// @Tags auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	refreshToken := h.refreshCookieValue(c)
	accessToken := bearerToken(c)

	// Revoke is best effort; the cookie is cleared no matter what.
	_ = h.authService.Logout(c.Request().Context(), refreshToken, accessToken)

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, map[string]string{
		"message": "logged out successfully",
	})
}

func (h *AuthHandler) refreshCookieValue(c echo.Context) string {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie == nil {
		return ""
	}
	return cookie.Value
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(auth.RefreshTokenExpiry.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
