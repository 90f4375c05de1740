package paystack

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		BaseURL:      srv.URL,
		SecretKey:    "sk_test_123",
		Timeout:      2 * time.Second,
		BulkheadSize: 2,
	})
}

func TestListTransactionsSendsAuthAndQuery(t *testing.T) {
	var gotAuth string
	var gotQuery map[string]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotQuery = map[string]string{
			"perPage": r.URL.Query().Get("perPage"),
			"page":    r.URL.Query().Get("page"),
			"from":    r.URL.Query().Get("from"),
			"to":      r.URL.Query().Get("to"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Transactions retrieved",
			"data": [{"id": 1, "reference": "ref-1", "amount": 500000, "currency": "NGN", "metadata": ""}],
			"meta": {"total": 120, "perPage": 50, "page": 2, "pageCount": 3}
		}`))
	})

	list, err := client.ListTransactions(context.Background(), ListTransactionsParams{
		PerPage: 50,
		Page:    2,
		From:    "2024-01-01T00:00:00.000Z",
		To:      "2024-01-31T23:59:59.000Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, map[string]string{
		"perPage": "50",
		"page":    "2",
		"from":    "2024-01-01T00:00:00.000Z",
		"to":      "2024-01-31T23:59:59.000Z",
	}, gotQuery)

	require.Len(t, list.Data, 1)
	assert.Equal(t, int64(500000), list.Data[0].Amount)
	assert.Nil(t, list.Data[0].Metadata)
	assert.Equal(t, 120, list.Meta.Total)
}

func TestFetchTransaction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/12345", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": true, "data": {"id": 12345, "status": "success", "reference": "abc"}}`))
	})

	txn, err := client.FetchTransaction(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), txn.ID)
	assert.Equal(t, "abc", txn.Reference)
}

func TestListRefunds(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/refund", r.URL.Path)
		_, _ = w.Write([]byte(`{"status": true, "data": [
			{"id": 1, "transaction": 12345, "amount": 1000, "status": "processed"},
			{"id": 2, "transaction": {"id": 67890}, "amount": 2000, "status": "pending"}
		]}`))
	})

	refunds, err := client.ListRefunds(context.Background())
	require.NoError(t, err)
	require.Len(t, refunds, 2)
	assert.Equal(t, int64(12345), int64(refunds[0].Transaction))
	assert.Equal(t, int64(67890), int64(refunds[1].Transaction))
}

func TestUpstreamErrorCarriesStatusAndMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	})

	_, err := client.FetchTransaction(context.Background(), "1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid key", apiErr.Message)
}

func TestUpstreamErrorFallsBackToStatusText(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.ListRefunds(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestStatusFalseBodyIsAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": false, "message": "Something odd"}`))
	})

	_, err := client.ListRefunds(context.Background())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "Something odd", apiErr.Message)
}

func TestNotConfiguredMakesNoRequest(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	assert.False(t, client.Configured())

	_, err := client.ListTransactions(context.Background(), ListTransactionsParams{PerPage: 50, Page: 1})
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, called)
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(Config{SecretKey: "sk"})
	assert.Equal(t, DefaultBaseURL, client.http.BaseURL)
	assert.NotNil(t, client.Circuit())
	assert.Equal(t, "Paystack", client.Circuit().Name())
}
