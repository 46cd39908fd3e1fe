package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mvolkov/storefront/internal/auth"
	"github.com/mvolkov/storefront/internal/config"
	"github.com/mvolkov/storefront/internal/events"
	"github.com/mvolkov/storefront/internal/httpserver"
	"github.com/mvolkov/storefront/internal/repo"
	"github.com/mvolkov/storefront/internal/search"
	"github.com/mvolkov/storefront/internal/service"
	"github.com/mvolkov/storefront/internal/stripe"
	"github.com/mvolkov/storefront/pkg/db"
	"github.com/mvolkov/storefront/pkg/logging"
	loggingmw "github.com/mvolkov/storefront/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")
	config.MustNonEmpty(cfg.StripeSecretKey, "STRIPE_SECRET_KEY")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("database migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	if producer == nil {
		logger.Warn("KAFKA_BROKERS not set, event publishing disabled")
	}

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = &search.Index{ES: esClient, Name: cfg.ESIndex}
	} else {
		logger.Warn("ES_URL not set, catalog search disabled")
	}

	storage := repo.New(gormDB)
	gateway := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeAPIURL)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))

	deps := &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{
			DB:            gormDB,
			JWTSecret:     cfg.JWTAccessSecret,
			RefreshSecret: cfg.JWTRefreshSecret,
			Producer:      producer,
		},
		CatalogHandler: &httpserver.CatalogHTTP{
			Svc:      &service.CatalogService{Repo: storage, Index: index},
			Producer: producer,
		},
		CartHandler: &httpserver.CartHTTP{
			Svc:      &service.CartService{Repo: storage},
			Producer: producer,
		},
		CheckoutHandler: &httpserver.CheckoutHTTP{
			Svc:      &service.CheckoutService{Repo: storage},
			Producer: producer,
		},
		PaymentHandler: &httpserver.PaymentHTTP{
			Svc:      &service.PaymentService{Repo: storage, Gateway: gateway},
			Producer: producer,
		},
		AuthMW: auth.NewMiddleware(gormDB, cfg.JWTAccessSecret, cfg.JWTRefreshSecret),
	}

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "service", cfg.ServiceName)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
