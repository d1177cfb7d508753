package messaging

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRecordRequiresAuth(t *testing.T) {
	h := NewHandler()
	c, rec := newJSONContext(t, http.MethodPost, `{"to":"bob","text":"hi"}`)

	require.NoError(t, h.Record(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecordValidatesPayload(t *testing.T) {
	h := NewHandler()

	cases := []struct {
		name string
		body string
	}{
		{"missing recipient", `{"text":"hi"}`},
		{"missing text", `{"to":"bob"}`},
		{"empty body", `{}`},
		{"malformed json", `{"to":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newJSONContext(t, http.MethodPost, tc.body)
			c.Set("user_id", "alice")

			require.NoError(t, h.Record(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHistoryRequiresAuth(t *testing.T) {
	h := NewHandler()
	c, rec := newJSONContext(t, http.MethodGet, "")
	c.SetParamNames("userId")
	c.SetParamValues("bob")

	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHistoryRequiresCounterpart(t *testing.T) {
	h := NewHandler()
	c, rec := newJSONContext(t, http.MethodGet, "")
	c.Set("user_id", "alice")

	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
