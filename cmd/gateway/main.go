package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/catalog"
	"github.com/giftgram/giftgram/internal/database"
	"github.com/giftgram/giftgram/internal/directory"
	"github.com/giftgram/giftgram/internal/gateway"
	"github.com/giftgram/giftgram/internal/health"
	"github.com/giftgram/giftgram/pkg/config"
	"github.com/giftgram/giftgram/pkg/graceful"
	"github.com/giftgram/giftgram/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.AppEnv,
		}); err != nil {
			return err
		}
		defer sentry.Flush(2 * time.Second)
	}

	log := logger.New(cfg.Logger).With(slog.String("service", "gateway"))
	config.WatchLogLevel(v, log)

	log.Info("starting gateway",
		slog.String("env", cfg.AppEnv),
		slog.String("port", cfg.Server.Port),
	)

	db, err := database.Open(ctx, database.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Error("closing database", slog.Any("error", cerr))
		}
	}()

	// Schema bootstrap happens once per boot. On failure the gateway keeps
	// serving: /health reports the degradation and user endpoints answer 503
	// until an operator intervenes.
	migrator := database.NewMigrator(db, log)
	if err := migrator.EnsureSchema(ctx); err != nil {
		log.Error("schema bootstrap failed, serving degraded", slog.Any("error", err))
	}

	repo := directory.NewPostgresRepository(db, log)
	users := directory.NewService(repo, log)
	bundles := catalog.New()

	checker := health.NewChecker(log)
	checker.AddCheck("database", health.NewDBChecker(db))

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	router := gateway.NewRouter(
		log,
		users,
		bundles,
		checker,
		errHandler,
		cfg.IsProduction(),
		cfg.Server.CORSOrigin,
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return graceful.NewServer(log, srv, cfg.Server.ShutdownTimeout).ListenAndServe(ctx)
}
