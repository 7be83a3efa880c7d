package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/llmwatch/console/internal/api"
	"github.com/llmwatch/console/internal/cache"
	"github.com/llmwatch/console/internal/charts"
	"github.com/llmwatch/console/internal/config"
	"github.com/llmwatch/console/internal/console"
	"github.com/llmwatch/console/internal/core"
	"github.com/llmwatch/console/internal/websocket"
)

var version = "dev"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_LEVEL") == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	log.Info().Str("version", version).Msg("Starting LLM proxy monitoring console")

	// Load configuration
	cfg := config.Load()

	// Core service command client, with cached option lists
	httpClient := core.NewHTTPClient(cfg.Core.BaseURL, cfg.Core.Timeout)
	client := core.NewCachedClient(httpClient, cache.NewMemoryCache(16), cfg.Core.OptionsTTL)

	// Chart rendering port and registry
	renderer := charts.NewSpecRenderer()
	registry := charts.NewRegistry(renderer)

	// View orchestrator
	orch := console.New(client, registry, cfg.View.LogsPageSize)

	// WebSocket hub pushing view-refresh events to attached surfaces
	wsHub := websocket.NewHub()
	go wsHub.Run()
	orch.SetNotify(wsHub.BroadcastRefresh)

	// Setup routes
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(api.PrometheusMiddleware)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:3001"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", api.HealthCheck(wsHub, renderer))
		r.Post("/session", api.Login(cfg.Auth))
		r.HandleFunc("/ws", websocket.HandleWebSocket(wsHub))

		r.Group(func(r chi.Router) {
			r.Use(api.RequireSession(cfg.Auth))

			r.Route("/dashboard", func(r chi.Router) {
				r.Get("/", api.GetDashboard(orch))
				r.Post("/filters", api.SetDashboardFilters(orch))
				r.Get("/charts/{key}", api.GetChartSpec(registry))
				r.Post("/charts/{key}/expand", api.ExpandChart(orch))
				r.Post("/fullscreen/dismiss", api.DismissFullscreen(orch))
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", api.GetMessageLogs(orch))
				r.Post("/filters", api.SetLogFilters(orch))
				r.Get("/export", api.ExportLogs(orch, client, cfg.View.ExportChunkSize))
				r.Post("/{id}/tab", api.SelectCardTab(orch))
				r.Get("/{id}/copy", api.CopyCard(orch))
			})

			r.Get("/backends", api.GetBackends(client))
			r.Get("/models", api.GetModels(client))
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down console...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv.SetKeepAlivesEnabled(false)
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		close(done)
	}()

	log.Info().Str("port", cfg.Server.Port).Str("core", cfg.Core.BaseURL).Msg("Console started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Console failed to start")
	}

	<-done
	log.Info().Msg("Console stopped")
}
