package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Refund mirrors a Paystack refund record
type Refund struct {
	ID             int64          `json:"id"`
	Domain         string         `json:"domain,omitempty"`
	Transaction    TransactionRef `json:"transaction"`
	Status         string         `json:"status"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Channel        string         `json:"channel,omitempty"`
	CustomerNote   string         `json:"customer_note,omitempty"`
	MerchantNote   string         `json:"merchant_note,omitempty"`
	Dispute        *int64         `json:"dispute,omitempty"`
	Integration    int64          `json:"integration,omitempty"`
	DeductedAmount *int64         `json:"deducted_amount"`
	Settlement     *int64         `json:"settlement"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at,omitempty"`
}

// TransactionRef is the id of the transaction a refund belongs to.
// The refund list sends a bare number; some payloads embed the transaction object instead.
type TransactionRef int64

// UnmarshalJSON accepts a number, a numeric string, or an object carrying "id"
func (r *TransactionRef) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = 0
		return nil
	}

	switch trimmed[0] {
	case '{':
		var embedded struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(trimmed, &embedded); err != nil {
			return fmt.Errorf("decode refund transaction: %w", err)
		}
		*r = TransactionRef(embedded.ID)
	case '"':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("decode refund transaction: %w", err)
		}
		id, err := n.Int64()
		if err != nil {
			return fmt.Errorf("decode refund transaction: %w", err)
		}
		*r = TransactionRef(id)
	default:
		var id int64
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return fmt.Errorf("decode refund transaction: %w", err)
		}
		*r = TransactionRef(id)
	}
	return nil
}
