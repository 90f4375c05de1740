package ui

import (
	"context"
	"errors"

	"github.com/ashendes/paystack-lookup/internal/models"
	log "github.com/sirupsen/logrus"
)

// Querier runs list queries against the gateway
type Querier interface {
	ListTransactions(ctx context.Context, startDate, endDate string, page int, actionID string) models.TransactionsListResponse
}

// SearchController drives the results view of one session
type SearchController struct {
	store   Store
	querier Querier
	session string

	params       *SearchParams
	page         int
	totalPages   int
	totalResults int
	state        ViewState
}

// NewSearchController starts a controller in the Idle state
func NewSearchController(store Store, querier Querier, session string) *SearchController {
	return &SearchController{
		store:   store,
		querier: querier,
		session: session,
		page:    1,
		state:   Idle{},
	}
}

// State returns the current view state
func (sc *SearchController) State() ViewState { return sc.state }

// Params returns the active search, nil before the first search
func (sc *SearchController) Params() *SearchParams { return sc.params }

// Page returns the current page
func (sc *SearchController) Page() int { return sc.page }

// TotalPages returns the page count of the last successful query
func (sc *SearchController) TotalPages() int { return sc.totalPages }

// TotalResults returns the result count of the last successful query
func (sc *SearchController) TotalResults() int { return sc.totalResults }

// Pager renders the pagination control for the current state
func (sc *SearchController) Pager() Pager {
	_, busy := sc.state.(Loading)
	return NewPager(sc.page, sc.totalPages, busy)
}

// Load reads the saved search without querying. A malformed entry is removed
// and the controller stays Idle.
func (sc *SearchController) Load(ctx context.Context) {
	saved, err := sc.store.Load(ctx, sc.session)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			log.WithError(err).Warn("Discarding malformed saved search")
			if clearErr := sc.store.Clear(ctx, sc.session); clearErr != nil {
				log.WithError(clearErr).Error("Failed to clear saved search")
			}
		} else {
			log.WithError(err).Error("Failed to load saved search")
		}
		return
	}
	if saved == nil {
		return
	}

	params := saved.SearchParams
	sc.params = &params
	sc.page = saved.Page
	sc.totalPages = saved.TotalPages
}

// Restore loads the saved search and re-runs it at the saved page
func (sc *SearchController) Restore(ctx context.Context) {
	sc.Load(ctx)
	if sc.params != nil {
		sc.Refresh(ctx)
	}
}

// Submit starts a new search from page 1
func (sc *SearchController) Submit(ctx context.Context, params SearchParams) {
	sc.params = &params
	sc.page = 1
	sc.totalPages = 0
	sc.save(ctx)
	sc.Refresh(ctx)
}

// ChangePage moves to page n and re-queries. It returns false without doing
// anything when there is no search, n is out of range, n is the current page,
// or a query is already in flight.
func (sc *SearchController) ChangePage(ctx context.Context, n int) bool {
	if sc.params == nil || n < 1 || n > sc.totalPages || n == sc.page {
		return false
	}
	if _, busy := sc.state.(Loading); busy {
		return false
	}

	sc.page = n
	sc.save(ctx)
	sc.Refresh(ctx)
	return true
}

// Refresh re-runs the active search at the current page
func (sc *SearchController) Refresh(ctx context.Context) {
	if sc.params == nil {
		return
	}

	sc.state = Loading{}
	resp := sc.querier.ListTransactions(ctx, sc.params.StartDate, sc.params.EndDate, sc.page, sc.params.ActionID)
	sc.state = stateFor(resp)

	if failed, ok := sc.state.(Failed); ok {
		log.WithField("session", sc.session).WithField("error", failed.Err).Error("Error fetching transactions")
		return
	}

	sc.totalPages = resp.Data.Pagination.TotalPages
	sc.totalResults = resp.Data.Pagination.Total
	sc.save(ctx)
}

func (sc *SearchController) save(ctx context.Context) {
	if sc.params == nil {
		return
	}
	err := sc.store.Save(ctx, sc.session, SavedSearch{
		SearchParams: *sc.params,
		Page:         sc.page,
		TotalPages:   sc.totalPages,
	})
	if err != nil {
		log.WithError(err).Error("Failed to save search")
	}
}
