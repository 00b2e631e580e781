package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmlink/internal/auth"
	apperrors "farmlink/internal/errors"
	"farmlink/internal/model"
)

const testSecret = "test-secret"

func newProtectedEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	g := e.Group("", JWT(testSecret))
	handler := func(c echo.Context) error {
		caller, err := Caller(c)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, map[string]string{
			"id":   caller.ID.String(),
			"role": string(caller.Role),
		})
	}
	g.GET("/protected", handler)
	g.OPTIONS("/protected", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return e
}

func errorCode(t *testing.T, body []byte) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestJWT_ValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewJWTService(testSecret).Issue(userID, model.RoleFarmer)
	require.NoError(t, err)

	e := newProtectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["id"])
	assert.Equal(t, string(model.RoleFarmer), body["role"])
}

func TestJWT_MissingToken(t *testing.T) {
	e := newProtectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := errorCode(t, rec.Body.Bytes())
	assert.Equal(t, apperrors.ErrTokenMissing.Error(), resp.Error)
}

func TestJWT_ExpiredToken(t *testing.T) {
	claims := &auth.Claims{
		Role: model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	e := newProtectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := errorCode(t, rec.Body.Bytes())
	assert.Equal(t, apperrors.ErrTokenExpired.Error(), resp.Error)
}

func TestJWT_TamperedToken(t *testing.T) {
	token, err := auth.NewJWTService("some-other-secret").Issue(uuid.New(), model.RoleAdmin)
	require.NoError(t, err)

	e := newProtectedEcho(t)
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := errorCode(t, rec.Body.Bytes())
	assert.Equal(t, apperrors.ErrTokenInvalid.Error(), resp.Error)
}

// Preflight requests carry no Authorization header and must not be rejected.
func TestJWT_OptionsBypass(t *testing.T) {
	e := newProtectedEcho(t)
	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	jwtService := auth.NewJWTService(testSecret)
	e := echo.New()
	g := e.Group("/admin", JWT(testSecret), RequireAdmin())
	g.GET("/users", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	t.Run("admin token passes", func(t *testing.T) {
		token, err := jwtService.Issue(uuid.New(), model.RoleAdmin)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("farmer token is forbidden", func(t *testing.T) {
		token, err := jwtService.Issue(uuid.New(), model.RoleFarmer)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
