package gateway

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ashendes/paystack-lookup/internal/metrics"
	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/ashendes/paystack-lookup/internal/paystack"
)

// Upstream is the subset of the Paystack client the gateway uses
type Upstream interface {
	Configured() bool
	ListTransactions(ctx context.Context, params paystack.ListTransactionsParams) (*paystack.TransactionList, error)
	FetchTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListRefunds(ctx context.Context) ([]models.Refund, error)
}

// ListQuery is a validated list request
type ListQuery struct {
	From     time.Time
	To       time.Time
	Page     int
	ActionID string
}

// Service implements the gateway operations on top of Paystack
type Service struct {
	upstream Upstream
}

// NewService creates a gateway service
func NewService(upstream Upstream) *Service {
	return &Service{upstream: upstream}
}

// ListTransactions fetches one upstream page and applies the optional Action ID filter.
// The filter only sees the fetched page, so pagination reflects matches on that page alone.
func (s *Service) ListTransactions(ctx context.Context, q ListQuery) (*models.TransactionPage, error) {
	if !s.upstream.Configured() {
		return nil, &ConfigurationError{Err: paystack.ErrNotConfigured}
	}
	if q.Page < 1 {
		q.Page = 1
	}

	list, err := s.upstream.ListTransactions(ctx, paystack.ListTransactionsParams{
		PerPage: models.PerPage,
		Page:    q.Page,
		From:    FormatUpstream(q.From),
		To:      FormatUpstream(q.To),
	})
	if err != nil {
		return nil, classifyUpstream("Failed to fetch transactions", err)
	}

	transactions := list.Data
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	total := list.Meta.Total

	if strings.TrimSpace(q.ActionID) != "" {
		transactions = FilterByActionID(transactions, q.ActionID)
		total = len(transactions)
		metrics.ActionIDFilterMatches.Observe(float64(total))
	}

	return &models.TransactionPage{
		Transactions: transactions,
		Pagination: models.Pagination{
			Total:       total,
			TotalPages:  TotalPages(total),
			CurrentPage: q.Page,
			PerPage:     models.PerPage,
		},
	}, nil
}

// GetTransaction returns a single transaction unchanged
func (s *Service) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Message: "Transaction ID is required"}
	}
	if !s.upstream.Configured() {
		return nil, &ConfigurationError{Err: paystack.ErrNotConfigured}
	}

	txn, err := s.upstream.FetchTransaction(ctx, id)
	if err != nil {
		return nil, classifyUpstream("Failed to fetch transaction", err)
	}
	return txn, nil
}

// RefundsForTransaction lists all refunds and keeps those belonging to id.
// Only the first upstream page of refunds is inspected.
func (s *Service) RefundsForTransaction(ctx context.Context, id string) ([]models.Refund, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Message: "Transaction ID is required"}
	}
	if !s.upstream.Configured() {
		return nil, &ConfigurationError{Err: paystack.ErrNotConfigured}
	}

	refunds, err := s.upstream.ListRefunds(ctx)
	if err != nil {
		return nil, classifyUpstream("Failed to fetch refunds", err)
	}

	filtered := []models.Refund{}
	transactionID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil {
		return filtered, nil
	}
	for _, refund := range refunds {
		if int64(refund.Transaction) == transactionID {
			filtered = append(filtered, refund)
		}
	}
	return filtered, nil
}

// FilterByActionID keeps transactions tagged with exactly actionID
func FilterByActionID(transactions []models.Transaction, actionID string) []models.Transaction {
	matched := make([]models.Transaction, 0, len(transactions))
	for _, txn := range transactions {
		if txn.HasActionID(actionID) {
			matched = append(matched, txn)
		}
	}
	return matched
}

// TotalPages is ceil(total / PerPage)
func TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + models.PerPage - 1) / models.PerPage
}
