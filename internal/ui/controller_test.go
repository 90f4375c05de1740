package ui

import (
	"context"
	"testing"
	"time"

	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type listCall struct {
	StartDate string
	EndDate   string
	Page      int
	ActionID  string
}

type fakeGateway struct {
	calls   []listCall
	list    func(page int) models.TransactionsListResponse
	txn     models.SingleTransactionResponse
	refunds models.RefundsResponse

	refundCalls int
}

func (f *fakeGateway) ListTransactions(_ context.Context, startDate, endDate string, page int, actionID string) models.TransactionsListResponse {
	f.calls = append(f.calls, listCall{startDate, endDate, page, actionID})
	if f.list == nil {
		return models.TransactionsListResponse{Success: false, Error: "no list configured"}
	}
	return f.list(page)
}

func (f *fakeGateway) GetTransaction(context.Context, string) models.SingleTransactionResponse {
	return f.txn
}

func (f *fakeGateway) GetRefunds(context.Context, string) models.RefundsResponse {
	f.refundCalls++
	return f.refunds
}

// pagedResults returns total transactions split into pages of 50
func pagedResults(total int) func(page int) models.TransactionsListResponse {
	return func(page int) models.TransactionsListResponse {
		var txns []models.Transaction
		for i := (page-1)*models.PerPage + 1; i <= total && i <= page*models.PerPage; i++ {
			txns = append(txns, models.Transaction{ID: int64(i), Reference: "ref", Amount: 100, Currency: "NGN"})
		}
		if txns == nil {
			txns = []models.Transaction{}
		}
		totalPages := (total + models.PerPage - 1) / models.PerPage
		return models.TransactionsListResponse{
			Success: true,
			Data: &models.TransactionPage{
				Transactions: txns,
				Pagination:   models.Pagination{Total: total, TotalPages: totalPages, CurrentPage: page, PerPage: models.PerPage},
			},
		}
	}
}

func sampleParams() SearchParams {
	return SearchParams{StartDate: "2024-01-01T00:00:00", EndDate: "2024-01-31T23:59:59"}
}

func TestSubmitQueriesFirstPageAndSaves(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	gw := &fakeGateway{list: pagedResults(120)}
	ctrl := NewSearchController(store, gw, "s1")
	assert.IsType(t, Idle{}, ctrl.State())

	ctrl.Submit(ctx, sampleParams())

	require.Len(t, gw.calls, 1)
	assert.Equal(t, listCall{"2024-01-01T00:00:00", "2024-01-31T23:59:59", 1, ""}, gw.calls[0])

	state, ok := ctrl.State().(Succeeded)
	require.True(t, ok)
	assert.Len(t, state.Page.Transactions, 50)
	assert.Equal(t, 3, ctrl.TotalPages())
	assert.Equal(t, 120, ctrl.TotalResults())

	saved, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.Page)
	assert.Equal(t, 3, saved.TotalPages)
	assert.Equal(t, sampleParams(), saved.SearchParams)
}

func TestSubmitResetsPage(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{list: pagedResults(120)}
	ctrl := NewSearchController(NewMemoryStore(time.Hour), gw, "s1")

	ctrl.Submit(ctx, sampleParams())
	require.True(t, ctrl.ChangePage(ctx, 3))
	assert.Equal(t, 3, ctrl.Page())

	ctrl.Submit(ctx, SearchParams{StartDate: "2024-02-01T00:00:00", EndDate: "2024-02-02T23:59:59", ActionID: "A"})
	assert.Equal(t, 1, ctrl.Page())
	assert.Equal(t, 1, gw.calls[len(gw.calls)-1].Page)
	assert.Equal(t, "A", gw.calls[len(gw.calls)-1].ActionID)
}

func TestChangePageNoOps(t *testing.T) {
	ctx := context.Background()
	gw := &fakeGateway{list: pagedResults(120)}

	idle := NewSearchController(NewMemoryStore(time.Hour), gw, "s1")
	assert.False(t, idle.ChangePage(ctx, 2))
	assert.Empty(t, gw.calls)

	ctrl := NewSearchController(NewMemoryStore(time.Hour), gw, "s2")
	ctrl.Submit(ctx, sampleParams())
	calls := len(gw.calls)

	assert.False(t, ctrl.ChangePage(ctx, 0))
	assert.False(t, ctrl.ChangePage(ctx, 4))
	assert.False(t, ctrl.ChangePage(ctx, 1))

	ctrl.state = Loading{}
	assert.False(t, ctrl.ChangePage(ctx, 2))

	assert.Equal(t, calls, len(gw.calls))
	assert.Equal(t, 1, ctrl.Page())
}

func TestChangePageQueriesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	gw := &fakeGateway{list: pagedResults(120)}
	ctrl := NewSearchController(store, gw, "s1")
	ctrl.Submit(ctx, sampleParams())

	require.True(t, ctrl.ChangePage(ctx, 3))

	assert.Equal(t, 3, gw.calls[len(gw.calls)-1].Page)
	state, ok := ctrl.State().(Succeeded)
	require.True(t, ok)
	assert.Len(t, state.Page.Transactions, 20)

	saved, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Page)
}

func TestRestoreRerunsSavedSearch(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	require.NoError(t, store.Save(ctx, "s1", SavedSearch{SearchParams: sampleParams(), Page: 2, TotalPages: 3}))

	gw := &fakeGateway{list: pagedResults(120)}
	ctrl := NewSearchController(store, gw, "s1")
	ctrl.Restore(ctx)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, 2, gw.calls[0].Page)
	assert.Equal(t, 2, ctrl.Page())
	assert.IsType(t, Succeeded{}, ctrl.State())
}

func TestRestoreWithNothingSavedStaysIdle(t *testing.T) {
	gw := &fakeGateway{list: pagedResults(1)}
	ctrl := NewSearchController(NewMemoryStore(time.Hour), gw, "s1")
	ctrl.Restore(context.Background())

	assert.IsType(t, Idle{}, ctrl.State())
	assert.Nil(t, ctrl.Params())
	assert.Empty(t, gw.calls)
}

func TestRestoreClearsMalformedEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)
	store.entries[storageKey("s1")] = memoryEntry{raw: []byte("{broken")}

	gw := &fakeGateway{list: pagedResults(1)}
	ctrl := NewSearchController(store, gw, "s1")
	ctrl.Restore(ctx)

	assert.IsType(t, Idle{}, ctrl.State())
	assert.Empty(t, gw.calls)
	_, exists := store.entries[storageKey("s1")]
	assert.False(t, exists)
}

func TestRefreshStates(t *testing.T) {
	ctx := context.Background()

	empty := NewSearchController(NewMemoryStore(time.Hour), &fakeGateway{list: pagedResults(0)}, "s1")
	empty.Submit(ctx, sampleParams())
	assert.IsType(t, Empty{}, empty.State())
	assert.Equal(t, 0, empty.TotalPages())

	failing := &fakeGateway{list: func(int) models.TransactionsListResponse {
		return models.TransactionsListResponse{Success: false, Error: "Failed to fetch transactions: Invalid key"}
	}}
	failed := NewSearchController(NewMemoryStore(time.Hour), failing, "s2")
	failed.Submit(ctx, sampleParams())

	state, ok := failed.State().(Failed)
	require.True(t, ok)
	assert.Equal(t, "Failed to fetch transactions: Invalid key", state.Err)
	assert.Equal(t, "failed", state.Name())
}

func TestPagerIsBusyWhileLoading(t *testing.T) {
	ctrl := NewSearchController(NewMemoryStore(time.Hour), &fakeGateway{}, "s1")
	ctrl.totalPages = 3
	ctrl.page = 2
	ctrl.state = Loading{}

	pager := ctrl.Pager()
	assert.True(t, pager.Busy)
	assert.True(t, pager.PrevDisabled)
	assert.True(t, pager.NextDisabled)
}
