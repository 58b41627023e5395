package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	ContextEmail   = "email"
	ContextIsAdmin = "is_admin"
)

type Claims struct {
	Email string `json:"email"`
	Admin bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token issued by the auth provider and puts
// the caller's identity on the request context.
func Auth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(secret), nil
				},
			)
			if err != nil || !token.Valid || claims.Email == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextEmail, claims.Email)
			c.Set(ContextIsAdmin, claims.Admin)
			return next(c)
		}
	}
}

// RequireAdmin gates the back-office routes. Must run after Auth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			isAdmin, _ := c.Get(ContextIsAdmin).(bool)
			if !isAdmin {
				return echo.NewHTTPError(http.StatusForbidden, "admin only")
			}
			return next(c)
		}
	}
}

// EmailFromContext returns the authenticated caller's email.
func EmailFromContext(c echo.Context) string {
	email, _ := c.Get(ContextEmail).(string)
	return email
}
