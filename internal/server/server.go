package server

import (
	"net/http"
	"time"

	"github.com/ashendes/paystack-lookup/internal/gateway"
	"github.com/ashendes/paystack-lookup/internal/logging"
	"github.com/ashendes/paystack-lookup/internal/metrics"
	"github.com/ashendes/paystack-lookup/internal/middleware"
	"github.com/ashendes/paystack-lookup/internal/patterns"
	"github.com/ashendes/paystack-lookup/internal/ui"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServiceName labels metrics and logs
const ServiceName = "paystack-lookup"

// DefaultTrustedProxies lets the UI's own loopback calls forward the browser's IP
var DefaultTrustedProxies = []string{"127.0.0.1", "::1"}

// Deps are the collaborators the router is assembled from
type Deps struct {
	Upstream     gateway.Upstream
	Circuit      *patterns.CircuitBreakerWrapper
	Location     *time.Location
	RateLimiter  *middleware.RateLimiter
	Store        ui.Store
	Client       ui.GatewayClient
	DashboardURL string
	SessionTTL   time.Duration

	// TrustedProxies may set X-Forwarded-For; DefaultTrustedProxies when nil
	TrustedProxies []string
}

// New builds the gin engine serving the API, the UI, health and metrics
func New(deps Deps) (*gin.Engine, error) {
	tmpl, err := ui.LoadTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()

	proxies := deps.TrustedProxies
	if proxies == nil {
		proxies = DefaultTrustedProxies
	}
	if err := router.SetTrustedProxies(proxies); err != nil {
		return nil, err
	}

	router.Use(
		middleware.RequestID(),
		logging.RequestLogger(),
		gateway.RecoveryEnvelope(),
		metrics.PrometheusMiddleware(ServiceName),
	)
	router.SetHTMLTemplate(tmpl)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(deps.RateLimiter.Middleware())
	}
	gatewayHandler := gateway.NewHandler(gateway.NewService(deps.Upstream), deps.Circuit, deps.Location)
	gatewayHandler.Register(api)

	uiHandler := ui.NewHandler(deps.Store, deps.Client, deps.DashboardURL, deps.SessionTTL)
	uiHandler.Register(router)

	return router, nil
}
