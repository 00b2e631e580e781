// Package middleware provides the authentication layer between Echo's router
// and the handlers: bearer token verification, caller extraction and role
// gates.
package middleware

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"farmlink/internal/auth"
	"farmlink/internal/authz"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
)

// JWT returns the bearer token middleware for protected routes. CORS
// preflight requests carry no credentials, so OPTIONS bypasses verification.
// Verification failures are distinguished three ways: missing token, expired
// token, and everything else (malformed, tampered, wrong algorithm); all
// three map to 401.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(secret),
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
		Skipper: func(c echo.Context) bool {
			return c.Request().Method == http.MethodOptions
		},
		ErrorHandler: func(c echo.Context, err error) error {
			httpErr := apperrors.MapErrorToHTTP(classifyTokenError(err))
			return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

// classifyTokenError separates the three 401 cases. A *TokenError means a
// token was extracted but failed to parse; anything else means extraction
// itself failed, i.e. no usable token in the request.
func classifyTokenError(err error) error {
	var tokenErr *echojwt.TokenError
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	case errors.As(err, &tokenErr):
		return apperrors.ErrTokenInvalid
	default:
		return apperrors.ErrTokenMissing
	}
}

// Caller extracts the authenticated identity that the JWT middleware stored
// in the context. The role comes straight from the token claim; the user
// record is not re-read.
func Caller(c echo.Context) (authz.Caller, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return authz.Anonymous, apperrors.ErrTokenMissing
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return authz.Anonymous, apperrors.ErrTokenInvalid
	}
	id, err := claims.UserID()
	if err != nil {
		return authz.Anonymous, err
	}
	return authz.Caller{ID: id, Role: claims.Role}, nil
}

// RequireAdmin rejects any caller whose token does not carry the admin role.
// Runs after JWT, so an unauthenticated request never reaches it.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := Caller(c)
			if err != nil {
				httpErr := apperrors.MapErrorToHTTP(err)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			if caller.Role != model.RoleAdmin {
				httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}
			return next(c)
		}
	}
}
