// Ikigai - summary server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ashureev/ikigai/internal/api"
	"github.com/ashureev/ikigai/internal/config"
	"github.com/ashureev/ikigai/internal/content"
	"github.com/ashureev/ikigai/internal/grpchealth"
	"github.com/ashureev/ikigai/internal/identity"
	"github.com/ashureev/ikigai/internal/llm"
	"github.com/ashureev/ikigai/internal/metrics"
	"github.com/ashureev/ikigai/internal/middleware"
	"github.com/ashureev/ikigai/internal/ratelimit"
	"github.com/ashureev/ikigai/internal/summary"
	"github.com/ashureev/ikigai/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped successfully")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "llm", cfg.LLMSettings().String())

	// Initialize dependencies.
	generator, err := llm.New(ctx, cfg.LLMSettings())
	if err != nil {
		return err
	}
	summaries := summary.NewService(generator, cfg.GenerateTimeout)

	limiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := limiter.Close(); closeErr != nil {
			slog.Error("Failed to close rate limiter", "error", closeErr)
		}
	}()

	m := metrics.New()
	handler := api.NewHandler(summaries, limiter, m, content.Default(), api.Options{
		MaxRequestBodyBytes: cfg.MaxRequestBodyBytes,
		AllowedOrigins:      cfg.CORSAllowedOrigins,
	})

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins, api.GenerationIDHeader))

	r.Handle("/metrics", m.Handler())

	r.Group(func(r chi.Router) {
		r.Use(identity.Middleware(cfg.IsDevelopment()))
		handler.RegisterRoutes(r)
	})

	// Serve embedded page.
	r.Handle("/*", web.Handler())

	// Note: streaming responses require no WriteTimeout; GENERATE_TIMEOUT bounds them instead.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	var health *grpchealth.Server
	if cfg.GRPCHealthAddr != "" {
		health = grpchealth.New()
		g.Go(func() error {
			return health.ListenAndServe(gctx, cfg.GRPCHealthAddr)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down gracefully...")
		if health != nil {
			health.SetServing(false)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	})

	return g.Wait()
}

func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	if cfg.RedisURL == "" {
		slog.Info("Using in-memory rate limiter", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
		return ratelimit.NewMemory(cfg.RateLimitRequests, cfg.RateLimitWindow), nil
	}
	limiter, err := ratelimit.NewRedis(ctx, cfg.RedisURL, cfg.RateLimitRequests, cfg.RateLimitWindow)
	if err != nil {
		return nil, err
	}
	slog.Info("Using Redis rate limiter", "requests", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
	return limiter, nil
}
