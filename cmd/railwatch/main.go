// Package main is the entrypoint for the railwatch web server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/railwatch/railwatch/internal/cache"
	"github.com/railwatch/railwatch/internal/catalog"
	"github.com/railwatch/railwatch/internal/config"
	"github.com/railwatch/railwatch/internal/handler"
	"github.com/railwatch/railwatch/internal/metrics"
	"github.com/railwatch/railwatch/internal/repository"
	"github.com/railwatch/railwatch/internal/server"
	"github.com/railwatch/railwatch/internal/service"
	"github.com/railwatch/railwatch/internal/status"
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

	applied, err := repo.Migrate(ctx)
	if err != nil {
		logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		repo.Close()
		os.Exit(1)
	}
	logger.Info("migrations applied", slog.Int("count", applied))

	sessions, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	recorder := metrics.NewInMemory()
	fetcher := status.New(status.Options{
		Timeout:      cfg.StatusFetchTimeout,
		UserAgent:    cfg.StatusUserAgent,
		Marker:       status.Marker{Tag: cfg.StatusMarkerTag, Class: cfg.StatusMarkerClass},
		MaxBodyBytes: cfg.StatusMaxBodyBytes,
		Logger:       logger,
		Metrics:      recorder,
	})

	accounts := service.NewAccountService(repo, logger, recorder)
	lines := service.NewLineService(repo, logger, recorder)
	dashboards := service.NewDashboardService(repo, fetcher, logger, recorder)
	dashboards.SetFetchBudget(cfg.DashboardFetchBudget)

	if err := ensureBootstrapUser(ctx, cfg, accounts, logger); err != nil {
		logger.Error("failed to ensure bootstrap user", slog.String("error", err.Error()))
		_ = sessions.Close()
		repo.Close()
		os.Exit(1)
	}

	tmpl, err := handler.ParseTemplates()
	if err != nil {
		logger.Error("failed to parse templates", slog.String("error", err.Error()))
		_ = sessions.Close()
		repo.Close()
		os.Exit(1)
	}

	r := newRouter(routerDeps{
		cfg:       cfg,
		logger:    logger,
		pages:     handler.New(tmpl, logger),
		health:    handler.NewHealthHandler(repo, sessions),
		metrics:   handler.NewMetricsHandler(recorder),
		accounts:  handler.NewAccountHandler(accounts, sessions, cookieConfig(cfg), tmpl, logger),
		dashboard: handler.NewDashboardHandler(dashboards, lines, catalog.Default, tmpl, logger),
		sessions:  sessions,
	})

	srv := server.New(r, server.Config{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: Redis closes before Postgres.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return sessions.Close()
	})

	logger.Info("starting server",
		slog.Int("port", cfg.AppPort),
		slog.String("env", cfg.AppEnv),
		slog.String("status_marker", fetcher.Marker().String()),
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
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
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// userEnsurer is satisfied by service.AccountService.
type userEnsurer interface {
	EnsureUser(ctx context.Context, username, password string) (bool, error)
}

// ensureBootstrapUser creates the configured bootstrap account if missing.
// An existing account is left untouched.
func ensureBootstrapUser(ctx context.Context, cfg *config.Config, accounts userEnsurer, logger *slog.Logger) error {
	username, password, ok := cfg.Bootstrap()
	if !ok {
		return nil
	}

	created, err := accounts.EnsureUser(ctx, username, password)
	if err != nil {
		return err
	}
	if created {
		logger.Info("bootstrap user created", slog.String("username", username))
	} else {
		logger.Debug("bootstrap user already exists", slog.String("username", username))
	}
	return nil
}

func cookieConfig(cfg *config.Config) handler.CookieConfig {
	return handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		TTL:    cfg.SessionTTL,
		Secure: !cfg.IsDevelopment(),
	}
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
