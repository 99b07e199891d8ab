package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kmoroz/storefront/internal/service"
	"github.com/kmoroz/storefront/pkg/tokens"
)

// Header names for server-driven token rotation. When the middleware
// refreshes an expired access token it hands the new pair back through
// these response headers; clients persist them.
const (
	HeaderAccessToken  = "Access-Token"
	HeaderRefreshToken = "Refresh-Token"
)

type AuthMiddleware struct {
	JWTSecret []byte
	Auth      *service.AuthService
}

func NewAuthMiddleware(secret []byte, auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{JWTSecret: secret, Auth: auth}
}

type validatorFunc func(claims *tokens.AccessClaims) error

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

func bearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

func (m *AuthMiddleware) requireAuthWithValidator(next echo.HandlerFunc, validator validatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := tokens.AccessClaimsFromToken(accessToken, m.JWTSecret)
		if err == nil && claims != nil {
			if validator != nil {
				if vErr := validator(claims); vErr != nil {
					return vErr
				}
			}
			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		// Expired access token: rotate through the refresh token, hand
		// the new pair back via response headers and continue.
		refreshToken := c.Request().Header.Get(HeaderRefreshToken)
		if refreshToken == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "access token expired")
		}

		pair, refErr := m.Auth.Refresh(c.Request().Context(), refreshToken)
		if refErr != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh failed")
		}

		claims, err = tokens.AccessClaimsFromToken(pair.AccessToken, m.JWTSecret)
		if err != nil || claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}
		if validator != nil {
			if vErr := validator(claims); vErr != nil {
				return vErr
			}
		}

		c.Response().Header().Set(HeaderAccessToken, pair.AccessToken)
		c.Response().Header().Set(HeaderRefreshToken, pair.RefreshToken)

		setUserContext(c, claims)
		return next(c)
	}
}

func setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
}
