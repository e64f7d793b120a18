// Package bot is the Telegram-facing consumer of the gateway API.
package bot

import (
	"fmt"
	"log/slog"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftgram/giftgram/internal/bot/dedup"
	"github.com/giftgram/giftgram/pkg/config"
	"github.com/giftgram/giftgram/pkg/giftclient"
)

const (
	commandStart    = "/start"
	commandLanguage = "/language"
	commandHelp     = "/help"
)

// Bot wraps telebot.Bot with the gateway client and update de-duplication.
type Bot struct {
	telebot *telebot.Bot
	client  *giftclient.Client
	log     *slog.Logger
}

// New builds a telegram bot instance configured according to the application
// settings. The gateway client is injected so its timeout policy stays in one
// place.
func New(
	cfg config.BotConfig,
	log *slog.Logger,
	client *giftclient.Client,
	deduper dedup.Deduper,
) (*Bot, error) {
	settings := telebot.Settings{
		Token: cfg.Token,
	}

	if cfg.Mode == "webhook" {
		settings.Poller = &telebot.Webhook{
			Endpoint: &telebot.WebhookEndpoint{PublicURL: cfg.WebhookURL},
		}
	} else {
		settings.Poller = &telebot.LongPoller{
			Timeout: cfg.PollTimeout,
		}
	}

	tb, err := telebot.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("initialize telebot: %w", err)
	}

	b := &Bot{
		telebot: tb,
		client:  client,
		log:     log,
	}

	if deduper == nil {
		deduper = dedup.Noop{}
	}

	b.telebot.Use(
		recoveryMiddleware(log),
		dedupMiddleware(deduper, dedupTTL(cfg), log),
		loggingMiddleware(log),
		metricsMiddleware(),
	)

	b.telebot.Handle(commandStart, b.handleStart)
	b.telebot.Handle(commandLanguage, b.handleLanguage)
	b.telebot.Handle(commandHelp, b.handleText)
	b.telebot.Handle(telebot.OnText, b.handleText)

	return b, nil
}

// Start runs the telegram bot event loop. It blocks until Stop is called.
func (b *Bot) Start() {
	if b.telebot != nil {
		b.telebot.Start()
	}
}

// Stop gracefully stops the telegram bot.
func (b *Bot) Stop() {
	if b.telebot == nil {
		return
	}

	if b.log != nil {
		b.log.Info("stopping telegram bot")
	}

	b.telebot.Stop()
}

// Telebot exposes the underlying telebot.Bot instance for health checks.
func (b *Bot) Telebot() *telebot.Bot {
	return b.telebot
}

func dedupTTL(cfg config.BotConfig) time.Duration {
	if cfg.DedupTTL > 0 {
		return cfg.DedupTTL
	}
	return 10 * time.Minute
}
