package ui

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newUIRouter(t *testing.T, store Store, gw GatewayClient) *gin.Engine {
	t.Helper()
	tmpl, err := LoadTemplates()
	require.NoError(t, err)

	h := NewHandler(store, gw, "https://dashboard.paystack.com", time.Hour)
	h.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	h.Register(r)
	return r
}

func get(r http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie set", SessionCookie)
	return nil
}

func TestHomeWithoutSearch(t *testing.T) {
	gw := &fakeGateway{list: pagedResults(3)}
	r := newUIRouter(t, NewMemoryStore(time.Hour), gw)

	w := get(r, "/")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Find Transactions")
	assert.Contains(t, body, `max="2024-02-01"`)
	assert.NotContains(t, body, "No transactions found")
	assert.Empty(t, gw.calls)
	assert.NotEmpty(t, sessionCookie(t, w).Value)
}

func TestSearchRendersResultsAndRestores(t *testing.T) {
	gw := &fakeGateway{list: pagedResults(120)}
	store := NewMemoryStore(time.Hour)
	r := newUIRouter(t, store, gw)

	w := get(r, "/search?startDate=2024-01-01&startTime=09:00&endDate=2024-01-03&endTime=17:30&actionId=+A-1+")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, listCall{"2024-01-01T09:00:00", "2024-01-03T17:30:59", 1, "A-1"}, gw.calls[0])

	body := w.Body.String()
	assert.Contains(t, body, "Showing 1-50 of 120 transactions")
	assert.Contains(t, body, "Action ID: A-1")
	assert.Contains(t, body, "₦1.00")
	assert.Contains(t, body, `href="/?page=2"`)
	assert.Contains(t, body, `href="/transactions/1"`)

	w = get(r, "/?page=3", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, gw.calls[len(gw.calls)-1].Page)
	assert.Contains(t, w.Body.String(), "Showing 101-120 of 120 transactions")
	assert.Contains(t, w.Body.String(), `value="2024-01-01"`)
	assert.Contains(t, w.Body.String(), `value="09:00"`)

	w = get(r, "/", cookie)
	assert.Equal(t, 3, gw.calls[len(gw.calls)-1].Page)
	assert.Contains(t, w.Body.String(), "Showing 101-120 of 120 transactions")
}

func TestHomeIgnoresOutOfRangePage(t *testing.T) {
	gw := &fakeGateway{list: pagedResults(120)}
	r := newUIRouter(t, NewMemoryStore(time.Hour), gw)

	cookie := sessionCookie(t, get(r, "/search?startDate=2024-01-01&endDate=2024-01-03"))

	w := get(r, "/?page=9", cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, gw.calls[len(gw.calls)-1].Page)
	assert.Contains(t, w.Body.String(), "Showing 1-50 of 120 transactions")
}

func TestSearchEmptyAndFailed(t *testing.T) {
	r := newUIRouter(t, NewMemoryStore(time.Hour), &fakeGateway{list: pagedResults(0)})
	w := get(r, "/search?startDate=2024-01-05&endDate=2024-01-05")
	assert.Contains(t, w.Body.String(), "No transactions found in the selected date range.")
	assert.Contains(t, w.Body.String(), "disabled")

	failing := &fakeGateway{list: func(int) models.TransactionsListResponse {
		return models.TransactionsListResponse{Error: "Start date and end date are required"}
	}}
	r = newUIRouter(t, NewMemoryStore(time.Hour), failing)
	w = get(r, "/search")
	assert.Contains(t, w.Body.String(), "Start date and end date are required")
	assert.Equal(t, listCall{"", "", 1, ""}, failing.calls[0])
}

func TestDetailPage(t *testing.T) {
	paid := "2024-01-05T14:35:00.000Z"
	gw := &fakeGateway{
		txn: models.SingleTransactionResponse{Success: true, Data: &models.Transaction{
			ID:        12345,
			Status:    "success",
			Reference: "ref-12345",
			Amount:    500000,
			Currency:  "NGN",
			Channel:   "card",
			CreatedAt: "2024-01-05T14:30:00.000Z",
			PaidAt:    &paid,
			Customer:  models.Customer{FirstName: "Ada", LastName: "Obi", Email: "ada@example.com"},
			Metadata: models.Metadata{"custom_fields": []interface{}{
				map[string]interface{}{"display_name": "Action ID", "variable_name": "action_id", "value": "A-1"},
			}},
		}},
		refunds: models.RefundsResponse{Success: true, Data: []models.Refund{
			{ID: 9, Transaction: 12345, Amount: 100000, Currency: "NGN", Status: "processed", CreatedAt: "2024-01-06T10:00:00.000Z"},
		}},
	}
	r := newUIRouter(t, NewMemoryStore(time.Hour), gw)

	w := get(r, "/transactions/12345")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "₦5,000.00")
	assert.Contains(t, body, "ref-12345")
	assert.Contains(t, body, "Ada Obi")
	assert.Contains(t, body, "5 Jan 2024, 14:35")
	assert.Contains(t, body, "Action ID")
	assert.Contains(t, body, "A-1")
	assert.Contains(t, body, "₦1,000.00")
	assert.Contains(t, body, "https://dashboard.paystack.com/#/transactions/12345")
	assert.NotContains(t, body, "No refunds found")
}

func TestDetailWithoutRefunds(t *testing.T) {
	gw := &fakeGateway{
		txn:     models.SingleTransactionResponse{Success: true, Data: &models.Transaction{ID: 1, Status: "failed"}},
		refunds: models.RefundsResponse{Success: true},
	}
	r := newUIRouter(t, NewMemoryStore(time.Hour), gw)

	w := get(r, "/transactions/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No refunds found for this transaction.")
	assert.Contains(t, w.Body.String(), "status-failed")
}

func TestDetailNotFound(t *testing.T) {
	gw := &fakeGateway{
		txn: models.SingleTransactionResponse{
			Error:      "Failed to fetch transaction: Transaction not found",
			StatusCode: http.StatusNotFound,
		},
	}
	r := newUIRouter(t, NewMemoryStore(time.Hour), gw)

	w := get(r, "/transactions/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Transaction not found")
	assert.Equal(t, 0, gw.refundCalls)
}

func TestDetailFailureIsNotReportedAsMissing(t *testing.T) {
	tests := []struct {
		name       string
		resp       models.SingleTransactionResponse
		wantStatus int
	}{
		{
			name:       "rate limited",
			resp:       models.SingleTransactionResponse{Error: "Too many requests, please try again later", StatusCode: http.StatusTooManyRequests},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "upstream unavailable",
			resp:       models.SingleTransactionResponse{Error: "Failed to fetch transaction: Service Unavailable", StatusCode: http.StatusServiceUnavailable},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "gateway unreachable",
			resp:       models.SingleTransactionResponse{Error: "connection refused"},
			wantStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &fakeGateway{txn: tt.resp}
			r := newUIRouter(t, NewMemoryStore(time.Hour), gw)

			w := get(r, "/transactions/12345")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "Transaction not found")
			assert.Contains(t, w.Body.String(), "Transaction could not be loaded")
			assert.Contains(t, w.Body.String(), tt.resp.Error)
			assert.Equal(t, 0, gw.refundCalls)
		})
	}
}

func TestSessionCookieIsReused(t *testing.T) {
	r := newUIRouter(t, NewMemoryStore(time.Hour), &fakeGateway{list: pagedResults(1)})

	cookie := &http.Cookie{Name: SessionCookie, Value: "known-session"}
	w := get(r, "/", cookie)
	for _, c := range w.Result().Cookies() {
		assert.NotEqual(t, SessionCookie, c.Name)
	}
	assert.Contains(t, w.Body.String(), "Find Transactions")
}
