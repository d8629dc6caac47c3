// Package main is the entry point for the ticket inventory service.
//
//	@title						Ticket Inventory API
//	@version					1.0.0
//	@description				Multi-tenant ticket inventory listing with cached snapshots, reference resolution, filtering and sorting.
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token forwarded to the inventory backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/travel-backoffice/ticket-inventory/internal/config"

	// Import generated docs for swagger
	_ "github.com/travel-backoffice/ticket-inventory/docs"

	// Application layers
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/backend"
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/events"
	tickethttp "github.com/travel-backoffice/ticket-inventory/internal/adapter/http"
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/http/middleware"
	"github.com/travel-backoffice/ticket-inventory/internal/adapter/store"
	"github.com/travel-backoffice/ticket-inventory/internal/domain"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/logger"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/metrics"
	"github.com/travel-backoffice/ticket-inventory/internal/infrastructure/timeutil"
	"github.com/travel-backoffice/ticket-inventory/internal/inventory"
	"github.com/travel-backoffice/ticket-inventory/internal/resolver"
	"github.com/travel-backoffice/ticket-inventory/internal/usecase"
)

const (
	shutdownTimeout = 10 * time.Second
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	base := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "ticket-inventory",
	})
	log := base.Logger

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Str("store", cfg.Store.Driver).
		Bool("jwt", cfg.UsesJWT()).
		Msg("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache store")
	}
	defer closeStore()

	m := metrics.New()
	listing, err := buildListing(cfg, kv, base, m)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build listing")
	}

	if cfg.Events.Enabled {
		startConsumer(ctx, cfg, listing, base)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Configure server timeouts from config
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log)
	setupRoutes(e, cfg, listing, m)

	// Start server with graceful shutdown
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	gracefulShutdown(e, log)
}

// openStore connects the key-value store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (domain.KeyValueStore, func(), error) {
	if cfg.Store.Driver != config.StoreRedis {
		return store.NewMemory(), func() {}, nil
	}

	r, err := store.ConnectRedis(ctx, store.RedisConfig{
		Addr:     cfg.Store.RedisAddr,
		Password: cfg.Store.RedisPassword,
		DB:       cfg.Store.RedisDB,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	log.Info().Str("addr", cfg.Store.RedisAddr).Msg("Connected to Redis")

	return r, func() {
		if err := r.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing Redis")
		}
	}, nil
}

// buildListing wires the backend client, cache, resolver and pipeline into
// the listing use case.
func buildListing(cfg *config.Config, kv domain.KeyValueStore, log *logger.Logger, m *metrics.Metrics) (usecase.ListingUseCase, error) {
	clock := timeutil.NewRealClock()

	client, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.RequestTimeout,
		Logger:  log.WithComponent("backend").Logger,
		Metrics: m,
	})
	if err != nil {
		return nil, err
	}

	cache := inventory.NewCache(kv, inventory.CacheConfig{
		TTL:           cfg.Inventory.CacheTTL,
		CachePrefix:   cfg.Inventory.CachePrefix,
		RefreshPrefix: cfg.Inventory.RefreshPrefix,
	}, clock, log.WithComponent("cache").Logger, m)

	loader := inventory.NewLoader(client, clock, log.WithComponent("loader").Logger)

	res := resolver.New(client, resolver.Config{
		TierTimeout: cfg.Resolver.TierTimeout,
		NegativeTTL: cfg.Resolver.NegativeTTL,
		Concurrency: cfg.Resolver.Concurrency,
	}, clock, log.WithComponent("resolver").Logger, m)

	pipeline := usecase.NewPipeline(res, clock, timeutil.MustGetLocation(cfg.Display.Timezone))

	return usecase.NewListingUseCase(cache, loader, pipeline, &usecase.Config{
		WaitTimeout:    cfg.Inventory.WaitTimeout,
		RefreshTimeout: cfg.Inventory.RefreshTimeout,
	}, log.Logger, m), nil
}

// startConsumer runs the invalidation event consumer until ctx is done.
func startConsumer(ctx context.Context, cfg *config.Config, listing usecase.ListingUseCase, log *logger.Logger) {
	consumerLog := log.WithComponent("events").Logger
	consumer := events.NewConsumer(events.ConsumerConfig{
		URL:      cfg.Events.AMQPURL,
		Exchange: cfg.Events.Exchange,
		Queue:    cfg.Events.Queue,
	}, events.NewHandler(listing, consumerLog), log.Logger)

	go func() {
		if err := consumer.Run(ctx); err != nil {
			consumerLog.Error().Err(err).Msg("Event consumer stopped")
		}
	}()
}

// setupRoutes configures the HTTP routes.
func setupRoutes(e *echo.Echo, cfg *config.Config, listing usecase.ListingUseCase, m *metrics.Metrics) {
	handler := tickethttp.NewTicketHandler(listing, timeutil.MustGetLocation(cfg.Display.Timezone))

	session := middleware.Session(middleware.SessionConfig{
		JWTSecret: cfg.Auth.JWTSecret,
		OrgClaim:  cfg.Auth.OrgClaim,
	})
	tickethttp.RegisterRoutes(e, handler, session)

	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	// Swagger documentation endpoint
	if !cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
}

// gracefulShutdown drains in-flight requests.
func gracefulShutdown(e *echo.Echo, log zerolog.Logger) {
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
