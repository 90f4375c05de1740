package txclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/ashendes/paystack-lookup/internal/middleware"
	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/ashendes/paystack-lookup/internal/patterns"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

// Client calls the gateway endpoints and normalizes every failure into
// a {Success:false, Error} result. One request per call, no retries.
type Client struct {
	http *resty.Client
}

// Caller identifies the browser request a gateway call is made on behalf of
type Caller struct {
	ClientIP  string
	RequestID string
}

type callerKey struct{}

// WithCaller attaches the originating client to ctx. Its IP is forwarded in
// X-Forwarded-For so the gateway rate-limits each browser separately.
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// New creates a client for the gateway at baseURL
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(patterns.GatewayTimeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
	}
}

// ListTransactions queries the list endpoint. Blank dates and action id are left out of the query.
func (c *Client) ListTransactions(ctx context.Context, startDate, endDate string, page int, actionID string) models.TransactionsListResponse {
	if page < 1 {
		page = 1
	}

	query := url.Values{}
	if startDate != "" {
		query.Set("startDate", startDate)
	}
	if endDate != "" {
		query.Set("endDate", endDate)
	}
	if actionID != "" {
		query.Set("actionId", actionID)
	}
	query.Set("page", strconv.Itoa(page))

	var out models.TransactionsListResponse
	status, err := c.get(ctx, "/api/transactions", query, "Failed to fetch transactions", &out)
	if err != nil {
		log.WithError(err).Error("Error fetching transactions")
		return models.TransactionsListResponse{Success: false, Error: err.Error(), StatusCode: status}
	}
	out.StatusCode = status
	return out
}

// GetTransaction queries the single-transaction endpoint
func (c *Client) GetTransaction(ctx context.Context, id string) models.SingleTransactionResponse {
	var out models.SingleTransactionResponse
	status, err := c.get(ctx, "/api/transactions/"+url.PathEscape(id), nil, "Failed to fetch transaction", &out)
	if err != nil {
		log.WithField("transaction_id", id).WithError(err).Error("Error fetching transaction")
		return models.SingleTransactionResponse{Success: false, Error: err.Error(), StatusCode: status}
	}
	out.StatusCode = status
	return out
}

// GetRefunds queries the refunds endpoint of a transaction
func (c *Client) GetRefunds(ctx context.Context, id string) models.RefundsResponse {
	var out models.RefundsResponse
	status, err := c.get(ctx, "/api/transactions/"+url.PathEscape(id)+"/refunds", nil, "Failed to fetch refunds", &out)
	if err != nil {
		log.WithField("transaction_id", id).WithError(err).Error("Error fetching refunds")
		return models.RefundsResponse{Success: false, Error: err.Error(), StatusCode: status}
	}
	out.StatusCode = status
	return out
}

// get returns the gateway's HTTP status, or 0 when no response arrived
func (c *Client) get(ctx context.Context, path string, query url.Values, fallback string, out interface{}) (int, error) {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if caller, ok := ctx.Value(callerKey{}).(Caller); ok {
		if caller.ClientIP != "" {
			req.SetHeader("X-Forwarded-For", caller.ClientIP)
		}
		if caller.RequestID != "" {
			req.SetHeader(middleware.RequestIDHeader, caller.RequestID)
		}
	}

	resp, err := req.Get(path)
	if err != nil {
		return 0, err
	}

	if resp.IsError() {
		var body models.Envelope
		if jsonErr := json.Unmarshal(resp.Body(), &body); jsonErr == nil && body.Error != "" {
			return resp.StatusCode(), errors.New(body.Error)
		}
		return resp.StatusCode(), errors.New(fallback)
	}

	return resp.StatusCode(), json.Unmarshal(resp.Body(), out)
}
