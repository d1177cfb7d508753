package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSON(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestIssueTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	signed, err := issueToken("user-42")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	assert.Equal(t, "user-42", claims["user_id"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), exp.Time, time.Minute)
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@b.com","password":"secret1"}`},
		{"missing email", `{"name":"Ada","password":"secret1"}`},
		{"missing password", `{"name":"Ada","email":"a@b.com"}`},
		{"short password", `{"name":"Ada","email":"a@b.com","password":"abc"}`},
		{"malformed json", `{"name":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(t, tc.body)
			require.NoError(t, Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestLoginValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret1"}`},
		{"missing password", `{"email":"a@b.com"}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(t, tc.body)
			require.NoError(t, Login(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMeRequiresAuth(t *testing.T) {
	c, rec := postJSON(t, "")
	require.NoError(t, Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
