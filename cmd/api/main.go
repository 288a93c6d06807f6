// Package main is the entrypoint for the finledger API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/finledger/finledger/internal/auth"
	"github.com/finledger/finledger/internal/cache"
	"github.com/finledger/finledger/internal/config"
	"github.com/finledger/finledger/internal/handler"
	"github.com/finledger/finledger/internal/middleware"
	"github.com/finledger/finledger/internal/ratelimit"
	"github.com/finledger/finledger/internal/repository"
	"github.com/finledger/finledger/internal/server"
	"github.com/finledger/finledger/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Redis is optional; its presence selects the distributed rate limiter.
	var cacheClient *cache.Cache
	var limiter ratelimit.Limiter
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cache.Options{
			URL:          cfg.RedisURL,
			PoolSize:     cfg.RedisPoolSize,
			MinIdleConns: cfg.RedisMinIdleConns,
		})
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		limiter = ratelimit.NewRedis(cacheClient.Client(), cfg.RateLimitPerMinute, cfg.RateLimitWindow)
		logger.Info("connected to Redis", "rate_limiter", "redis")
	} else {
		limiter = ratelimit.NewMemory(cfg.RateLimitPerMinute, cfg.RateLimitWindow)
		logger.Info("Redis not configured", "rate_limiter", "memory")
	}

	store, err := buildStorage(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize blob storage", slog.String("error", err.Error()))
		os.Exit(1)
	}

	resolver := auth.NewResolver(repo, cfg.SecretKey)

	h := handler.New(logger, repo, store, cfg.SecretKey, cfg.TokenTTL)
	var healthCache handler.HealthChecker
	if cacheClient != nil {
		healthCache = cacheClient
	}
	healthHandler := handler.NewHealthHandler(repo, healthCache)

	r := setupRouter(h, healthHandler, resolver, limiter, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	srv.OnShutdown("database", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildStorage selects the blob backend: S3 when a bucket is configured,
// the local upload directory otherwise.
func buildStorage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.S3Bucket != "" {
		return storage.NewS3(ctx, storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	}
	return storage.NewLocal(cfg.UploadDir)
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
// Health probes and register/login sit outside the auth middleware;
// everything else under /api/v1 requires a resolved principal. The
// admission gate runs before credential resolution.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	resolver *auth.Resolver,
	limiter ratelimit.Limiter,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	// Health endpoints bypass admission and auth.
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	admissionCfg := middleware.AdmissionConfig{
		Logger:               logger,
		Limiter:              limiter,
		RequireHTTPS:         cfg.RequireHTTPS,
		InsecureAllowedHosts: cfg.GetInsecureAllowedHosts(),
	}

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Resolver: resolver,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Admission(admissionCfg))

		// Session endpoints take a password, not a credential.
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Route("/auth/api-keys", func(r chi.Router) {
				r.Post("/", h.CreateAPIKey)
				r.Get("/", h.ListAPIKeys)
				r.Delete("/{id}", h.DeleteAPIKey)
				r.Post("/{id}/rotate", h.RotateAPIKey)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", h.CreateInvoice)
				r.Get("/", h.ListInvoices)
				r.Get("/{id}", h.GetInvoice)
				r.Patch("/{id}", h.UpdateInvoiceStatus)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", h.CreateExpense)
				r.Get("/", h.ListExpenses)
				r.Get("/{id}", h.GetExpense)
				r.Patch("/{id}", h.UpdateExpense)
				r.Post("/{id}/receipt", h.UploadReceipt)
			})

			r.Route("/tax/configs", func(r chi.Router) {
				r.Post("/", h.CreateTaxConfig)
				r.Get("/", h.ListTaxConfigs)
			})

			r.Route("/company", func(r chi.Router) {
				r.Get("/profile", h.GetCompanyProfile)
				r.Patch("/profile", h.UpdateCompanyProfile)
				r.Post("/logo", h.UploadCompanyLogo)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/summary", h.ReportSummary)
				r.Get("/monthly", h.ReportMonthly)
			})

			r.Route("/tools", func(r chi.Router) {
				r.Get("/", h.ListTools)
				r.Post("/invoke", h.InvokeTool)
			})
		})
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
