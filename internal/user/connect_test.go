package user

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestConnectRequiresAuth(t *testing.T) {
	c, rec := newContext(t)
	c.SetParamNames("id")
	c.SetParamValues("target-1")

	require.NoError(t, Connect(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConnectRejectsSelf(t *testing.T) {
	c, rec := newContext(t)
	c.Set("user_id", "alice")
	c.SetParamNames("id")
	c.SetParamValues("alice")

	require.NoError(t, Connect(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConnectRequiresTarget(t *testing.T) {
	c, rec := newContext(t)
	c.Set("user_id", "alice")

	require.NoError(t, Connect(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfileRequiresAuth(t *testing.T) {
	c, rec := newContext(t)
	require.NoError(t, UpdateProfile(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListUsersRequiresAuth(t *testing.T) {
	c, rec := newContext(t)
	require.NoError(t, ListUsers(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
