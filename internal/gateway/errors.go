package gateway

import (
	"errors"
	"net/http"

	"github.com/ashendes/paystack-lookup/internal/patterns"
	"github.com/ashendes/paystack-lookup/internal/paystack"
)

// configurationMessage never names the missing setting
const configurationMessage = "Server configuration error"

// ValidationError is a client-side input problem
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConfigurationError means the gateway cannot reach Paystack as deployed
type ConfigurationError struct {
	Err error
}

func (e *ConfigurationError) Error() string {
	return configurationMessage
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// UpstreamError is a failed or rejected Paystack call
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classifyUpstream turns a paystack client error into the gateway taxonomy.
// prefix names the operation, e.g. "Failed to fetch refunds".
func classifyUpstream(prefix string, err error) error {
	if errors.Is(err, paystack.ErrNotConfigured) {
		return &ConfigurationError{Err: err}
	}

	var apiErr *paystack.APIError
	if errors.As(err, &apiErr) {
		return &UpstreamError{
			StatusCode: apiErr.StatusCode,
			Message:    prefix + ": " + apiErr.Message,
			Err:        err,
		}
	}

	if errors.Is(err, patterns.ErrCircuitOpen) || errors.Is(err, patterns.ErrBulkheadFull) {
		return &UpstreamError{
			StatusCode: http.StatusServiceUnavailable,
			Message:    prefix + ": " + http.StatusText(http.StatusServiceUnavailable),
			Err:        err,
		}
	}

	return err
}

// statusAndMessage maps an error to the HTTP status and client message of the envelope.
// fallback is the generic message used for unexpected failures.
func statusAndMessage(err error, fallback string) (int, string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Message
	}

	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		return http.StatusInternalServerError, configurationMessage
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		status := upstreamErr.StatusCode
		if status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, upstreamErr.Message
	}

	return http.StatusInternalServerError, fallback
}
