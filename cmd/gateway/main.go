package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashendes/paystack-lookup/internal/config"
	"github.com/ashendes/paystack-lookup/internal/logging"
	"github.com/ashendes/paystack-lookup/internal/middleware"
	"github.com/ashendes/paystack-lookup/internal/paystack"
	"github.com/ashendes/paystack-lookup/internal/server"
	"github.com/ashendes/paystack-lookup/internal/txclient"
	"github.com/ashendes/paystack-lookup/internal/ui"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PaystackSecretKey == "" {
		log.Error("Paystack secret key is not set; API requests will fail with a configuration error")
	}

	upstream := paystack.NewClient(paystack.Config{
		BaseURL:      cfg.PaystackBaseURL,
		SecretKey:    cfg.PaystackSecretKey,
		Timeout:      cfg.UpstreamTimeout,
		BulkheadSize: cfg.BulkheadSize,
	})

	var store ui.Store
	if cfg.RedisURL != "" {
		rdb, err := ui.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal("Failed to connect to Redis: ", err)
		}
		defer rdb.Close()
		store = ui.NewRedisStore(rdb, cfg.SearchTTL)
	} else {
		memory := ui.NewMemoryStore(cfg.SearchTTL)
		go memory.Run(ctx, time.Hour)
		store = memory
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, server.ServiceName)
	go limiter.Run(ctx, time.Minute, 3*time.Minute)

	router, err := server.New(server.Deps{
		Upstream:     upstream,
		Circuit:      upstream.Circuit(),
		Location:     cfg.Location,
		RateLimiter:  limiter,
		Store:        store,
		Client:       txclient.New(cfg.GatewayURL),
		DashboardURL: cfg.PaystackDashboardURL,
		SessionTTL:   cfg.SearchTTL,

		TrustedProxies: cfg.TrustedProxies,
	})
	if err != nil {
		log.Fatal("Failed to build router: ", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
		}
	}()

	log.WithFields(log.Fields{
		"port":        cfg.Port,
		"paystack":    cfg.PaystackBaseURL,
		"gateway_url": cfg.GatewayURL,
		"redis":       cfg.RedisURL != "",
	}).Info("Paystack lookup starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("Failed to start server: ", err)
	}
}
