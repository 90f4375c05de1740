package models

// PerPage is the fixed page size requested from Paystack
const PerPage = 50

// Envelope wraps every gateway response
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Pagination describes the page returned by the list endpoint
type Pagination struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PerPage     int `json:"perPage"`
}

// TransactionPage is the data payload of the list endpoint
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Pagination   Pagination    `json:"pagination"`
}

// ListTransactionsQuery is the bound query string of the list endpoint
type ListTransactionsQuery struct {
	StartDate string `form:"startDate" binding:"required,isodate"`
	EndDate   string `form:"endDate" binding:"required,isodate"`
	Page      int    `form:"page,default=1" binding:"min=1"`
	ActionID  string `form:"actionId"`
}

// TransactionsListResponse is the list endpoint envelope as seen by clients
type TransactionsListResponse struct {
	Success bool             `json:"success"`
	Data    *TransactionPage `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`

	// StatusCode is the gateway's HTTP status, 0 when the call never got a response
	StatusCode int `json:"-"`
}

// SingleTransactionResponse is the single-transaction envelope as seen by clients
type SingleTransactionResponse struct {
	Success bool         `json:"success"`
	Data    *Transaction `json:"data,omitempty"`
	Error   string       `json:"error,omitempty"`

	StatusCode int `json:"-"`
}

// RefundsResponse is the refunds envelope as seen by clients
type RefundsResponse struct {
	Success bool     `json:"success"`
	Data    []Refund `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`

	StatusCode int `json:"-"`
}
