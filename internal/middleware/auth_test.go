package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmoroz/storefront/internal/models"
	"github.com/kmoroz/storefront/internal/repo"
	"github.com/kmoroz/storefront/internal/service"
	"github.com/kmoroz/storefront/internal/transport"
	"github.com/kmoroz/storefront/pkg/tokens"
)

func initAuth(t *testing.T) (*AuthMiddleware, *service.AuthService) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to connect to in-memory db")
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))

	auth := &service.AuthService{
		Repo:          &repo.GormRepo{DB: db},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	return NewAuthMiddleware(auth.JWTSecret, auth), auth
}

func loginPair(t *testing.T, auth *service.AuthService) (*models.User, *transport.TokenPairResponse) {
	t.Helper()
	ctx := context.Background()

	user, err := auth.Register(ctx, transport.RegisterRequest{
		Email:    "test@example.com",
		FullName: "Test User",
		Password: "password123",
	})
	require.NoError(t, err)

	pair, err := auth.Login(ctx, transport.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	return user, pair
}

func runMiddleware(mw echo.MiddlewareFunc, req *http.Request) (echo.Context, *httptest.ResponseRecorder, error, bool) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, rec, err, called
}

func TestRequireAuthValidToken(t *testing.T) {
	mw, auth := initAuth(t)
	user, pair := loginPair(t, auth)

	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+pair.AccessToken)

	c, _, err, called := runMiddleware(mw.RequireAuth, req)
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, user.ID.String(), c.Get("user_id"))
	require.Equal(t, "user", c.Get("role"))
}

func TestRequireAuthRejectsMissingOrGarbageToken(t *testing.T) {
	mw, _ := initAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	_, _, err, called := runMiddleware(mw.RequireAuth, req)
	require.False(t, called)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	req = httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer garbage")
	_, _, err, called = runMiddleware(mw.RequireAuth, req)
	require.False(t, called)
	he, ok = err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestRequireAuthRotatesExpiredToken(t *testing.T) {
	mw, auth := initAuth(t)
	user, pair := loginPair(t, auth)

	expired, err := tokens.NewAccessToken(auth.JWTSecret, user.ID.String(), "user",
		time.Now().Add(-time.Minute))
	require.NoError(t, err)

	// expired token alone is refused
	req := httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
	_, _, mwErr, called := runMiddleware(mw.RequireAuth, req)
	require.False(t, called)
	he, ok := mwErr.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)

	// with a refresh token the request proceeds and the new pair is
	// handed back in the response headers
	req = httptest.NewRequest(http.MethodGet, "/carts", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
	req.Header.Set(HeaderRefreshToken, pair.RefreshToken)

	c, rec, mwErr, called := runMiddleware(mw.RequireAuth, req)
	require.NoError(t, mwErr)
	require.True(t, called)
	require.Equal(t, user.ID.String(), c.Get("user_id"))

	newAccess := rec.Header().Get(HeaderAccessToken)
	newRefresh := rec.Header().Get(HeaderRefreshToken)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)
	require.NotEqual(t, pair.RefreshToken, newRefresh, "refresh token is rotated")

	// the used refresh token is revoked
	_, err = auth.Refresh(context.Background(), pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRequireAdmin(t *testing.T) {
	mw, auth := initAuth(t)
	user, _ := loginPair(t, auth)

	userToken, err := tokens.NewAccessToken(auth.JWTSecret, user.ID.String(), "user",
		time.Now().Add(time.Minute))
	require.NoError(t, err)
	adminToken, err := tokens.NewAccessToken(auth.JWTSecret, user.ID.String(), "admin",
		time.Now().Add(time.Minute))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/admin/customers", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+userToken)
	_, _, mwErr, called := runMiddleware(mw.RequireAdmin, req)
	require.False(t, called)
	he, ok := mwErr.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/customers", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken)
	c, _, mwErr, called := runMiddleware(mw.RequireAdmin, req)
	require.NoError(t, mwErr)
	require.True(t, called)
	require.Equal(t, "admin", c.Get("role"))
}
