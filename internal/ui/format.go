package ui

import (
	"html/template"
	"strings"
	"time"

	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var currencySymbols = map[string]string{
	"NGN": "₦",
	"GHS": "GH₵",
	"ZAR": "R",
	"KES": "KSh",
	"USD": "$",
}

// FormatAmount renders a minor-unit amount, e.g. 123450 NGN as ₦1,234.50
func FormatAmount(amount int64, currency string) string {
	value := decimal.New(amount, -2)

	sign := ""
	if value.IsNegative() {
		sign = "-"
		value = value.Abs()
	}

	_, frac, _ := strings.Cut(value.StringFixed(2), ".")
	whole := message.NewPrinter(language.English).Sprintf("%d", value.IntPart())

	symbol, ok := currencySymbols[strings.ToUpper(currency)]
	if !ok {
		symbol = strings.ToUpper(currency) + " "
		if currency == "" {
			symbol = currencySymbols["NGN"]
		}
	}
	return sign + symbol + whole + "." + frac
}

// FormatDate renders a Paystack timestamp as "2 Jan 2006, 15:04", or N/A when absent
func FormatDate(value string) string {
	if value == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.Format("2 Jan 2006, 15:04")
}

func formatOptionalDate(value *string) string {
	if value == nil {
		return "N/A"
	}
	return FormatDate(*value)
}

// StatusClass picks the badge style of a transaction or refund status
func StatusClass(status string) string {
	switch status {
	case models.TransactionStatusSuccess, "processed":
		return "status-success"
	case models.TransactionStatusFailed, models.TransactionStatusFail:
		return "status-failed"
	default:
		return "status-pending"
	}
}

// Capitalize upper-cases the first letter
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"amount":       FormatAmount,
		"date":         FormatDate,
		"optionalDate": formatOptionalDate,
		"statusClass":  StatusClass,
		"capitalize":   Capitalize,
		"add":          func(a, b int) int { return a + b },
	}
}
