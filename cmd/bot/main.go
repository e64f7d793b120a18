package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/giftgram/giftgram/internal/bot"
	"github.com/giftgram/giftgram/internal/bot/dedup"
	"github.com/giftgram/giftgram/internal/health"
	"github.com/giftgram/giftgram/pkg/config"
	"github.com/giftgram/giftgram/pkg/giftclient"
	"github.com/giftgram/giftgram/pkg/logger"
	"github.com/giftgram/giftgram/pkg/redis"
)

func main() {
	if err := run(); err != nil {
		slog.Error("bot exited", slog.Any("error", err))
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

	log := logger.New(cfg.Logger).With(slog.String("service", "bot"))
	config.WatchLogLevel(v, log)

	log.Info("starting bot",
		slog.String("env", cfg.AppEnv),
		slog.String("mode", cfg.Bot.Mode),
		slog.String("gateway_url", cfg.Bot.GatewayURL),
	)

	var deduper dedup.Deduper = dedup.Noop{}

	checker := health.NewChecker(log)

	if cfg.Redis.Enabled {
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rdb.Close(); cerr != nil {
				log.Error("closing redis", slog.Any("error", cerr))
			}
		}()

		deduper = dedup.NewRedisStore(rdb.Client, log)
		checker.AddCheck("redis", health.NewRedisChecker(rdb.Client))
	}

	client := giftclient.New(cfg.Bot.GatewayURL, cfg.Bot.ClientTimeout)
	checker.AddCheck("gateway", health.Func(client.Health))

	b, err := bot.New(cfg.Bot, log, client, deduper)
	if err != nil {
		return err
	}
	checker.AddCheck("telegram", health.NewTelegramChecker(b.Telebot()))

	startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	statuses, healthy := checker.Check(startupCtx)
	cancel()
	if !healthy {
		// The adapter degrades per event, so an unreachable gateway at boot
		// is a warning, not a startup failure.
		log.Warn("startup health degraded", slog.Any("checks", statuses))
	}

	go b.Start()
	defer b.Stop()

	<-ctx.Done()

	log.Info("bot shutting down")

	return nil
}
