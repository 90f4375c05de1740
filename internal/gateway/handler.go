package gateway

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ashendes/paystack-lookup/internal/logging"
	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/ashendes/paystack-lookup/internal/patterns"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"
)

const (
	listFallback    = "Failed to fetch transactions"
	singleFallback  = "Failed to fetch transaction"
	refundsFallback = "Failed to fetch refunds"
)

// Handler exposes the gateway over HTTP
type Handler struct {
	service  *Service
	circuit  *patterns.CircuitBreakerWrapper
	location *time.Location
}

// NewHandler creates a handler. Dates without an offset are read in loc.
func NewHandler(service *Service, circuit *patterns.CircuitBreakerWrapper, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if err := RegisterValidators(); err != nil {
		log.WithError(err).Error("Failed to register query validators")
	}
	return &Handler{service: service, circuit: circuit, location: loc}
}

// Register mounts the gateway routes on r
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/transactions", h.ListTransactions)
	r.GET("/transactions/:id", h.GetTransaction)
	r.GET("/transactions/:id/refunds", h.GetRefunds)
	r.GET("/upstream/circuit-status", h.CircuitStatus)
}

// ListTransactions handles GET /transactions
func (h *Handler) ListTransactions(c *gin.Context) {
	if c.Query("startDate") == "" || c.Query("endDate") == "" {
		h.fail(c, &ValidationError{Message: "Start date and end date are required"}, listFallback)
		return
	}

	dropBlankPage(c)

	var req models.ListTransactionsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, bindingError(err), listFallback)
		return
	}

	from, err := ParseDate(req.StartDate, h.location)
	if err != nil {
		h.fail(c, &ValidationError{Message: "Invalid start date"}, listFallback)
		return
	}
	to, err := ParseDate(req.EndDate, h.location)
	if err != nil {
		h.fail(c, &ValidationError{Message: "Invalid end date"}, listFallback)
		return
	}

	page, err := h.service.ListTransactions(c.Request.Context(), ListQuery{
		From:     from,
		To:       to,
		Page:     req.Page,
		ActionID: req.ActionID,
	})
	if err != nil {
		h.fail(c, err, listFallback)
		return
	}

	logging.FromContext(c).WithFields(log.Fields{
		"page":      page.Pagination.CurrentPage,
		"returned":  len(page.Transactions),
		"total":     page.Pagination.Total,
		"action_id": req.ActionID != "",
	}).Debug("Transactions listed")

	c.JSON(http.StatusOK, models.Envelope{Success: true, Data: page})
}

// GetTransaction handles GET /transactions/:id
func (h *Handler) GetTransaction(c *gin.Context) {
	txn, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, singleFallback)
		return
	}
	c.JSON(http.StatusOK, models.Envelope{Success: true, Data: txn})
}

// GetRefunds handles GET /transactions/:id/refunds
func (h *Handler) GetRefunds(c *gin.Context) {
	refunds, err := h.service.RefundsForTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err, refundsFallback)
		return
	}
	c.JSON(http.StatusOK, models.Envelope{Success: true, Data: refunds})
}

// CircuitStatus reports the Paystack circuit breaker state
func (h *Handler) CircuitStatus(c *gin.Context) {
	if h.circuit == nil {
		c.JSON(http.StatusOK, gin.H{"paystack_circuit": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"paystack_circuit": gin.H{
			"name":  h.circuit.Name(),
			"state": h.circuit.GetState(),
			"value": h.circuit.GetStateValue(),
		},
	})
}

// RecoveryEnvelope converts panics into the standard failure envelope
func RecoveryEnvelope() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logging.FromContext(c).WithField("panic", recovered).Error("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.Envelope{
			Success: false,
			Error:   "Internal server error",
		})
	})
}

func (h *Handler) fail(c *gin.Context, err error, fallback string) {
	status, message := statusAndMessage(err, fallback)

	entry := logging.FromContext(c).WithFields(log.Fields{
		"path":   c.FullPath(),
		"status": status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Gateway request failed")
	} else {
		entry.Warn("Gateway request rejected")
	}

	c.JSON(status, models.Envelope{Success: false, Error: message})
}

// dropBlankPage removes a present but empty page parameter so binding falls back to page 1
func dropBlankPage(c *gin.Context) {
	query := c.Request.URL.Query()
	if !query.Has("page") || strings.TrimSpace(query.Get("page")) != "" {
		return
	}
	query.Del("page")
	c.Request.URL.RawQuery = query.Encode()
}

func bindingError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			switch fe.StructField() {
			case "StartDate":
				return &ValidationError{Message: "Invalid start date"}
			case "EndDate":
				return &ValidationError{Message: "Invalid end date"}
			case "Page":
				return &ValidationError{Message: "Page must be a positive integer"}
			}
		}
	}
	return &ValidationError{Message: "Page must be a positive integer"}
}
