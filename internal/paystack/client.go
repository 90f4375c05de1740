package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ashendes/paystack-lookup/internal/metrics"
	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/ashendes/paystack-lookup/internal/patterns"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the public Paystack API
	DefaultBaseURL = "https://api.paystack.co"

	circuitName = "Paystack"
	serviceName = "paystack-gateway"
)

// ErrNotConfigured is returned when no secret key was supplied
var ErrNotConfigured = errors.New("paystack secret key not configured")

// APIError surfaces a non-successful Paystack response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack api error: status=%d message=%s", e.StatusCode, e.Message)
}

// Config configures a Client
type Config struct {
	BaseURL      string
	SecretKey    string
	Timeout      time.Duration
	BulkheadSize int
}

// Client talks to the Paystack REST API through a circuit breaker and bulkhead
type Client struct {
	http      *resty.Client
	secretKey string
	circuit   *patterns.CircuitBreakerWrapper
	bulkhead  *patterns.Bulkhead
}

// NewClient builds a client. An empty secret key is allowed; calls then fail with ErrNotConfigured.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = patterns.DefaultTimeout
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0). // No automatic retries, the circuit breaker handles repeated failures
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		secretKey: cfg.SecretKey,
		circuit:   patterns.NewCircuitBreaker(circuitName, serviceName),
		bulkhead:  patterns.NewBulkhead(cfg.BulkheadSize, "paystack", serviceName),
	}
}

// Configured reports whether a secret key is available
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// Circuit exposes the breaker for status reporting
func (c *Client) Circuit() *patterns.CircuitBreakerWrapper {
	return c.circuit
}

// ListTransactionsParams are the query parameters of GET /transaction
type ListTransactionsParams struct {
	PerPage int
	Page    int
	From    string
	To      string
}

// ListMeta is the pagination block of a Paystack list response
type ListMeta struct {
	Total     int `json:"total"`
	Skipped   int `json:"skipped"`
	PerPage   int `json:"perPage"`
	Page      int `json:"page"`
	PageCount int `json:"pageCount"`
}

// TransactionList is the body of GET /transaction
type TransactionList struct {
	Status  bool                 `json:"status"`
	Message string               `json:"message"`
	Data    []models.Transaction `json:"data"`
	Meta    ListMeta             `json:"meta"`
}

type transactionEnvelope struct {
	Status  bool               `json:"status"`
	Message string             `json:"message"`
	Data    models.Transaction `json:"data"`
}

type refundList struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    []models.Refund `json:"data"`
	Meta    *ListMeta       `json:"meta,omitempty"`
}

// ListTransactions fetches one page of transactions in a date range
func (c *Client) ListTransactions(ctx context.Context, params ListTransactionsParams) (*TransactionList, error) {
	query := map[string]string{
		"perPage": strconv.Itoa(params.PerPage),
		"page":    strconv.Itoa(params.Page),
	}
	if params.From != "" {
		query["from"] = params.From
	}
	if params.To != "" {
		query["to"] = params.To
	}

	var out TransactionList
	if err := c.get(ctx, "list_transactions", "/transaction", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchTransaction fetches a single transaction by id
func (c *Client) FetchTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if id == "" {
		return nil, errors.New("transaction id is required")
	}

	var out transactionEnvelope
	if err := c.get(ctx, "fetch_transaction", "/transaction/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListRefunds fetches the first page of all refunds on the integration.
// Paystack offers no per-transaction refund lookup.
func (c *Client) ListRefunds(ctx context.Context) ([]models.Refund, error) {
	var out refundList
	if err := c.get(ctx, "list_refunds", "/refund", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type statusEnvelope struct {
	Status  *bool  `json:"status"`
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, operation, path string, query map[string]string, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	start := time.Now()
	err := c.bulkhead.Execute(ctx, func() error {
		result, cbErr := c.circuit.Execute(func() (interface{}, error) {
			resp, httpErr := c.http.R().
				SetContext(ctx).
				SetAuthToken(c.secretKey).
				SetQueryParams(query).
				Get(path)
			if httpErr != nil {
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}
			// Only server-side failures count against the breaker
			if resp.StatusCode() >= http.StatusInternalServerError {
				return nil, newAPIError(resp)
			}
			return resp, nil
		})
		if cbErr != nil {
			return cbErr
		}

		resp := result.(*resty.Response)
		if resp.IsError() {
			return newAPIError(resp)
		}

		var status statusEnvelope
		if err := json.Unmarshal(resp.Body(), &status); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		if status.Status != nil && !*status.Status {
			return &APIError{StatusCode: http.StatusBadGateway, Message: messageOr(status.Message, http.StatusBadGateway)}
		}

		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
		return nil
	})
	metrics.ObserveUpstream(operation, start, err)

	if err != nil {
		log.WithFields(log.Fields{
			"operation": operation,
			"path":      path,
		}).WithError(err).Error("Paystack request failed")
	}
	return err
}

func newAPIError(resp *resty.Response) *APIError {
	var body statusEnvelope
	_ = json.Unmarshal(resp.Body(), &body)
	return &APIError{
		StatusCode: resp.StatusCode(),
		Message:    messageOr(body.Message, resp.StatusCode()),
	}
}

func messageOr(message string, status int) string {
	if message != "" {
		return message
	}
	return http.StatusText(status)
}
