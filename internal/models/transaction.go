package models

import (
	"bytes"
	"encoding/json"
)

// TransactionStatus values reported by Paystack
const (
	TransactionStatusSuccess   = "success"
	TransactionStatusFailed    = "failed"
	TransactionStatusFail      = "fail"
	TransactionStatusPending   = "pending"
	TransactionStatusAbandoned = "abandoned"
)

// ActionIDField is the custom field label used to tag transactions with an Action ID
const ActionIDField = "Action ID"

// Customer is the customer embedded in a transaction
type Customer struct {
	ID           int64    `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	CustomerCode string   `json:"customer_code"`
	Metadata     Metadata `json:"metadata,omitempty"`
}

// FullName joins first and last name, skipping blanks
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// Authorization summarises the payment instrument
type Authorization struct {
	AuthorizationCode string  `json:"authorization_code,omitempty"`
	Bin               string  `json:"bin,omitempty"`
	Last4             string  `json:"last4,omitempty"`
	ExpMonth          string  `json:"exp_month,omitempty"`
	ExpYear           string  `json:"exp_year,omitempty"`
	Channel           string  `json:"channel,omitempty"`
	CardType          string  `json:"card_type,omitempty"`
	Bank              string  `json:"bank,omitempty"`
	CountryCode       string  `json:"country_code,omitempty"`
	Brand             string  `json:"brand,omitempty"`
	Reusable          bool    `json:"reusable,omitempty"`
	AccountName       *string `json:"account_name,omitempty"`
}

// Transaction mirrors a Paystack transaction. Amounts are in kobo.
type Transaction struct {
	ID              int64           `json:"id"`
	Domain          string          `json:"domain,omitempty"`
	Status          string          `json:"status"`
	Reference       string          `json:"reference"`
	Amount          int64           `json:"amount"`
	Message         *string         `json:"message,omitempty"`
	GatewayResponse string          `json:"gateway_response,omitempty"`
	PaidAt          *string         `json:"paid_at"`
	CreatedAt       string          `json:"created_at"`
	Channel         string          `json:"channel"`
	Currency        string          `json:"currency"`
	IPAddress       *string         `json:"ip_address,omitempty"`
	Metadata        Metadata        `json:"metadata"`
	Customer        Customer        `json:"customer"`
	Fees            *int64          `json:"fees,omitempty"`
	Authorization   *Authorization  `json:"authorization,omitempty"`
	Log             json.RawMessage `json:"log,omitempty"`
}

// CustomField is one entry of metadata.custom_fields
type CustomField struct {
	DisplayName  string      `json:"display_name,omitempty"`
	VariableName string      `json:"variable_name,omitempty"`
	Value        interface{} `json:"value"`
}

// Metadata is the open key/value map attached to a transaction.
// Paystack sends an empty string or null when nothing was attached; both decode to nil.
type Metadata map[string]interface{}

// UnmarshalJSON accepts an object, null, or any scalar (treated as empty)
func (m *Metadata) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*m = nil
		return nil
	}

	raw := map[string]interface{}{}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*m = raw
	return nil
}

// CustomFields returns the well-formed entries of metadata.custom_fields.
// Entries that are not objects or carry no value key are skipped.
func (m Metadata) CustomFields() []CustomField {
	list, ok := m["custom_fields"].([]interface{})
	if !ok {
		return nil
	}

	fields := make([]CustomField, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		value, ok := obj["value"]
		if !ok {
			continue
		}
		field := CustomField{Value: value}
		field.DisplayName, _ = obj["display_name"].(string)
		field.VariableName, _ = obj["variable_name"].(string)
		fields = append(fields, field)
	}
	return fields
}

// HasActionID reports whether a custom field labelled "Action ID" carries exactly actionID
func (t Transaction) HasActionID(actionID string) bool {
	for _, field := range t.Metadata.CustomFields() {
		if field.DisplayName != ActionIDField && field.VariableName != ActionIDField {
			continue
		}
		if value, ok := field.Value.(string); ok && value == actionID {
			return true
		}
	}
	return false
}
