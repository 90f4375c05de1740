package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/ashendes/paystack-lookup/internal/logging"
	"github.com/ashendes/paystack-lookup/internal/models"
	"github.com/ashendes/paystack-lookup/internal/txclient"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// SessionCookie identifies the browser whose last search is persisted
const SessionCookie = "txn_session"

// TransactionReader fetches the detail page data
type TransactionReader interface {
	GetTransaction(ctx context.Context, id string) models.SingleTransactionResponse
	GetRefunds(ctx context.Context, id string) models.RefundsResponse
}

// GatewayClient is everything the UI needs from the gateway
type GatewayClient interface {
	Querier
	TransactionReader
}

// Handler serves the search and detail pages
type Handler struct {
	store        Store
	client       GatewayClient
	dashboardURL string
	sessionTTL   time.Duration
	now          func() time.Time
}

// NewHandler creates the UI handler
func NewHandler(store Store, client GatewayClient, dashboardURL string, sessionTTL time.Duration) *Handler {
	return &Handler{
		store:        store,
		client:       client,
		dashboardURL: dashboardURL,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.tmpl")
}

// Register mounts the UI routes
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Home)
	r.GET("/search", h.Search)
	r.GET("/transactions/:id", h.Detail)
}

type homeView struct {
	Form         SearchForm
	SameDay      bool
	Today        string
	Searched     bool
	State        string
	Transactions []models.Transaction
	Error        string
	Pager        Pager
	RangeStart   int
	RangeEnd     int
	Total        int
	ActionID     string
}

// Home restores the last search, optionally moving to ?page=N
func (h *Handler) Home(c *gin.Context) {
	ctx := callerContext(c)
	ctrl := NewSearchController(h.store, h.client, h.session(c))

	if raw := c.Query("page"); raw != "" {
		ctrl.Load(ctx)
		n, err := strconv.Atoi(raw)
		// A rejected page change leaves the saved page in place, but every
		// render starts without results, so it still has to be queried.
		if err != nil || !ctrl.ChangePage(ctx, n) {
			ctrl.Refresh(ctx)
		}
	} else {
		ctrl.Restore(ctx)
	}

	h.renderHome(c, ctrl, nil)
}

// Search handles a submitted search form
func (h *Handler) Search(c *gin.Context) {
	form := SearchForm{
		StartDate: c.Query("startDate"),
		StartTime: c.Query("startTime"),
		EndDate:   c.Query("endDate"),
		EndTime:   c.Query("endTime"),
		ActionID:  c.Query("actionId"),
	}

	ctrl := NewSearchController(h.store, h.client, h.session(c))
	ctrl.Submit(callerContext(c), form.Params())

	h.renderHome(c, ctrl, &form)
}

func (h *Handler) renderHome(c *gin.Context, ctrl *SearchController, form *SearchForm) {
	view := homeView{
		Today: h.now().Format(dateLayout),
		State: ctrl.State().Name(),
		Pager: ctrl.Pager(),
		Total: ctrl.TotalResults(),
	}

	switch {
	case form != nil:
		view.Form = *form
	case ctrl.Params() != nil:
		view.Form = FormFromParams(*ctrl.Params())
	default:
		view.Form = SearchForm{StartTime: defaultStartTime, EndTime: defaultEndTime}
	}
	view.SameDay = view.Form.SameDay()

	if p := ctrl.Params(); p != nil {
		view.Searched = true
		view.ActionID = p.ActionID
	}

	switch s := ctrl.State().(type) {
	case Succeeded:
		view.Transactions = s.Page.Transactions
		view.RangeStart = (ctrl.Page()-1)*models.PerPage + 1
		view.RangeEnd = ctrl.Page() * models.PerPage
		if view.RangeEnd > view.Total {
			view.RangeEnd = view.Total
		}
	case Failed:
		view.Error = s.Err
	}

	c.HTML(http.StatusOK, "home", view)
}

type detailView struct {
	ID           string
	Transaction  *models.Transaction
	CustomFields []models.CustomField
	Refunds      []models.Refund
	RefundsError string
	Error        string
	NotFound     bool
	DashboardURL string
}

// Detail shows one transaction and its refunds
func (h *Handler) Detail(c *gin.Context) {
	ctx := callerContext(c)
	id := c.Param("id")
	view := detailView{ID: id}

	txn := h.client.GetTransaction(ctx, id)
	if !txn.Success || txn.Data == nil {
		view.Error = txn.Error
		status := txn.StatusCode
		switch {
		case status == http.StatusNotFound:
			view.NotFound = true
		case status < http.StatusBadRequest:
			status = http.StatusBadGateway
		}
		c.HTML(status, "detail", view)
		return
	}
	view.Transaction = txn.Data
	view.CustomFields = txn.Data.Metadata.CustomFields()
	view.DashboardURL = h.dashboardURL + "/#/transactions/" + strconv.FormatInt(txn.Data.ID, 10)

	refunds := h.client.GetRefunds(ctx, id)
	if refunds.Success {
		view.Refunds = refunds.Data
	} else {
		view.RefundsError = refunds.Error
	}

	c.HTML(http.StatusOK, "detail", view)
}

// callerContext carries the browser's IP and request id into gateway calls
func callerContext(c *gin.Context) context.Context {
	return txclient.WithCaller(c.Request.Context(), txclient.Caller{
		ClientIP:  c.ClientIP(),
		RequestID: c.GetString(logging.RequestIDKey),
	})
}

func (h *Handler) session(c *gin.Context) string {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		return id
	}

	id := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(h.sessionTTL.Seconds()), "/", "", false, true)
	return id
}
