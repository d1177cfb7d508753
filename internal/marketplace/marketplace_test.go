package marketplace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxWithBody(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "delivered", "completed", "cancelled"} {
		assert.True(t, ValidStatus(s), s)
	}
	for _, s := range []string{"", "active", "PENDING", "declined", "shipped"} {
		assert.False(t, ValidStatus(s), s)
	}
}

func TestTerminalStatus(t *testing.T) {
	assert.True(t, TerminalStatus(StatusCompleted))
	assert.True(t, TerminalStatus(StatusCancelled))
	assert.False(t, TerminalStatus(StatusPending))
	assert.False(t, TerminalStatus(StatusDelivered))
}

func TestCreateServiceValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing title", `{"price":50}`},
		{"zero price", `{"title":"Logo design","price":0}`},
		{"negative price", `{"title":"Logo design","price":-5}`},
		{"bad category", `{"title":"Logo design","price":50,"category":"Cooking"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := ctxWithBody(t, http.MethodPost, tc.body)
			c.Set("user_id", "seller-1")
			require.NoError(t, CreateService(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCreateServiceRequiresAuth(t *testing.T) {
	c, rec := ctxWithBody(t, http.MethodPost, `{"title":"Logo design","price":50}`)
	require.NoError(t, CreateService(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPurchaseValidation(t *testing.T) {
	c, rec := ctxWithBody(t, http.MethodPost, `{}`)
	c.Set("user_id", "buyer-1")
	require.NoError(t, Purchase(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeliverOrderRequiresLink(t *testing.T) {
	c, rec := ctxWithBody(t, http.MethodPut, `{}`)
	c.Set("user_id", "seller-1")
	c.SetParamNames("id")
	c.SetParamValues("order-1")
	require.NoError(t, DeliverOrder(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	c, rec := ctxWithBody(t, http.MethodPut, `{"status":"shipped"}`)
	c.Set("user_id", "buyer-1")
	c.SetParamNames("id")
	c.SetParamValues("order-1")
	require.NoError(t, UpdateStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateReviewValidation(t *testing.T) {
	longComment := strings.Repeat("x", 1001)
	cases := []struct {
		name string
		body string
	}{
		{"missing service", `{"rating":4}`},
		{"rating too low", `{"service_id":"s1","rating":0}`},
		{"rating too high", `{"service_id":"s1","rating":6}`},
		{"comment too long", `{"service_id":"s1","rating":4,"comment":"` + longComment + `"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := ctxWithBody(t, http.MethodPost, tc.body)
			c.Set("user_id", "buyer-1")
			require.NoError(t, CreateReview(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
