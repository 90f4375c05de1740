package ui

import "github.com/ashendes/paystack-lookup/internal/models"

// ViewState is the state of the results view:
// Idle, Loading, Succeeded, Empty or Failed.
type ViewState interface {
	viewState()
	Name() string
}

// Idle means no search has been run yet
type Idle struct{}

// Loading means a query is in flight
type Loading struct{}

// Succeeded holds a non-empty page of results
type Succeeded struct {
	Page models.TransactionPage
}

// Empty means the query succeeded with no transactions
type Empty struct{}

// Failed holds the error message of the last query
type Failed struct {
	Err string
}

func (Idle) viewState()      {}
func (Loading) viewState()   {}
func (Succeeded) viewState() {}
func (Empty) viewState()     {}
func (Failed) viewState()    {}

func (Idle) Name() string      { return "idle" }
func (Loading) Name() string   { return "loading" }
func (Succeeded) Name() string { return "succeeded" }
func (Empty) Name() string     { return "empty" }
func (Failed) Name() string    { return "failed" }

// stateFor derives the next state from a list response
func stateFor(resp models.TransactionsListResponse) ViewState {
	if !resp.Success || resp.Data == nil {
		return Failed{Err: resp.Error}
	}
	if len(resp.Data.Transactions) == 0 {
		return Empty{}
	}
	return Succeeded{Page: *resp.Data}
}
