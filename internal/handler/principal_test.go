package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"questboard/internal/auth"
)

// MockTokenBlacklist is a mock implementation of auth.TokenBlacklist.
type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// newAuthedContext builds an echo context carrying the parsed token exactly
// the way the JWT middleware stores it.
func newAuthedContext(claims *auth.Claims) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set("user", &jwt.Token{Claims: claims, Valid: true})
	return c
}

func TestCurrentUserID(t *testing.T) {
	c := newAuthedContext(&auth.Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
	})

	userID, err := CurrentUserID(c)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestCurrentUserID_MissingOrInvalid(t *testing.T) {
	t.Run("no token in context", func(t *testing.T) {
		e := echo.New()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

		_, err := CurrentUserID(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})

	t.Run("zero user id", func(t *testing.T) {
		c := newAuthedContext(&auth.Claims{UserID: 0})

		_, err := CurrentUserID(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}

func TestBlacklistGuard(t *testing.T) {
	claims := &auth.Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{ID: "jti-1"},
	}

	t.Run("token not revoked passes through", func(t *testing.T) {
		blacklist := new(MockTokenBlacklist)
		blacklist.On("IsAccessTokenBlacklisted", mock.Anything, "jti-1").Return(false, nil)

		called := false
		next := func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		}

		err := BlacklistGuard(blacklist)(next)(newAuthedContext(claims))
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		blacklist := new(MockTokenBlacklist)
		blacklist.On("IsAccessTokenBlacklisted", mock.Anything, "jti-1").Return(true, nil)

		next := func(c echo.Context) error {
			t.Fatal("next handler must not run for a revoked token")
			return nil
		}

		err := BlacklistGuard(blacklist)(next)(newAuthedContext(claims))
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
	})
}
