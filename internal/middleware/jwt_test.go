package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runMiddleware(req *http.Request) (*httptest.ResponseRecorder, string) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	handler := JWTMiddleware(func(c echo.Context) error {
		gotUserID, _ = c.Get("user_id").(string)
		return c.String(http.StatusOK, "ok")
	})
	_ = handler(c)
	return rec, gotUserID
}

func TestJWTMiddlewareAcceptsBearerHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, userID := runMiddleware(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", userID)
}

func TestJWTMiddlewareAcceptsQueryToken(t *testing.T) {
	// Websocket clients pass the token as a query parameter.
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "user-2",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)

	rec, userID := runMiddleware(req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-2", userID)
}

func TestJWTMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec, _ := runMiddleware(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "other-secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, _ := runMiddleware(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsExpiredToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"user_id": "user-1",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, _ := runMiddleware(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTMiddlewareRejectsMissingUserClaim(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec, _ := runMiddleware(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
