// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/travelplanner/travel-platform/internal/airports"
	"github.com/travelplanner/travel-platform/internal/cache"
	"github.com/travelplanner/travel-platform/internal/chat"
	"github.com/travelplanner/travel-platform/internal/config"
	"github.com/travelplanner/travel-platform/internal/flights"
	"github.com/travelplanner/travel-platform/internal/handler"
	"github.com/travelplanner/travel-platform/internal/llm"
	"github.com/travelplanner/travel-platform/internal/middleware"
	natsclient "github.com/travelplanner/travel-platform/internal/nats"
	"github.com/travelplanner/travel-platform/internal/places"
	"github.com/travelplanner/travel-platform/internal/ratelimit"
	"github.com/travelplanner/travel-platform/internal/serpapi"
	"github.com/travelplanner/travel-platform/internal/service"
	"github.com/travelplanner/travel-platform/pkg/logger"
	"github.com/travelplanner/travel-platform/pkg/tracing"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "travel-platform", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Connect to NATS
	natsClient, err := natsclient.Connect(ctx, natsclient.Config{
		URL:      cfg.NATSURL,
		CAFile:   cfg.NATSCAFile,
		CertFile: cfg.NATSCertFile,
		KeyFile:  cfg.NATSKeyFile,
		Token:    cfg.NATSToken,
	}, log)
	if err != nil {
		log.Error("failed to connect to NATS", zap.Error(err))
		os.Exit(1)
	}
	defer natsClient.Close()

	// Ensure JetStream resources exist
	streamManager := natsclient.NewStreamManager(natsClient)
	if err := streamManager.EnsureStream(ctx); err != nil {
		log.Error("failed to ensure stream", zap.Error(err))
		os.Exit(1)
	}
	tripsKV, err := natsClient.EnsureTripsBucket(ctx)
	if err != nil {
		log.Error("failed to ensure trips bucket", zap.Error(err))
		os.Exit(1)
	}

	// Flight result cache: Redis when available, no-op otherwise
	var flightCache cache.Cache = cache.NewNoOpCache()
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.RedisHost,
			Port: cfg.RedisPort,
			TTL:  cfg.RedisTTL,
		})
		if err != nil {
			log.Warn("Redis unavailable, flight caching disabled", zap.Error(err))
		} else {
			flightCache = redisCache
			defer redisCache.Close()
		}
	}

	// LLM client; nil means the assistant reports a missing key
	var llmClient llm.Client
	if cfg.OpenRouterAPIKey != "" {
		llmClient, err = llm.NewOpenRouterClient(cfg.OpenRouterAPIKey, llm.Options{
			BaseURL: cfg.OpenRouterBaseURL,
			Referer: cfg.OpenRouterReferer,
			Title:   cfg.OpenRouterTitle,
		})
		if err != nil {
			log.Warn("failed to create LLM client, assistant disabled", zap.Error(err))
		}
	} else {
		log.Warn("OPENROUTER_API_KEY not set, assistant disabled")
	}

	dispatcher := chat.New(llmClient, chat.Config{}, log)
	resolver := airports.NewResolver(llmClient, log)

	// Flight data providers
	limiter := ratelimit.NewWithDefaults()
	placesClient := places.NewClient(cfg.GoogleMapsAPIKey, log)
	placesClient.BaseURL = cfg.PlacesBaseURL
	serpClient := serpapi.NewClient(cfg.SerpAPIKey, log)
	serpClient.BaseURL = cfg.SerpAPIBaseURL
	aggregator := flights.New(placesClient, serpClient, limiter, log, nil)

	// Services
	tripSvc := service.NewTripService(tripsKV, log)
	chatSvc := service.NewChatService(dispatcher, streamManager, tripSvc, log)

	// Handlers
	healthHandler := handler.NewHealthHandler(natsClient)
	chatHandler := handler.NewChatHandler(dispatcher, chatSvc, log)
	flightsHandler := handler.NewFlightsHandler(aggregator, flightCache, log)
	airportsHandler := handler.NewAirportsHandler(placesClient, resolver, log)
	tripsHandler := handler.NewTripsHandler(tripSvc, log)

	// Router
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link", "X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	// API routes with authentication
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Post("/chat", chatHandler.Chat)

		r.Post("/flights/search", flightsHandler.Search)
		r.Get("/airports", airportsHandler.Search)

		r.Route("/trips", func(r chi.Router) {
			r.Post("/", tripsHandler.Create)
			r.Get("/", tripsHandler.List)

			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", tripsHandler.Get)
				r.Patch("/", tripsHandler.Update)
				r.Delete("/", tripsHandler.Delete)

				r.Post("/activities", tripsHandler.AddActivity)
				r.Post("/expenses", tripsHandler.AddExpense)

				r.Post("/chat", chatHandler.SendTripMessage)
				r.Get("/chat", chatHandler.History)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
