package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryEmptyReturnsEmptySets(t *testing.T) {
	// An empty q must short-circuit before the store.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, Query(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Users    []json.RawMessage `json:"users"`
		Services []json.RawMessage `json:"services"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Users)
	assert.Empty(t, body.Services)
}
