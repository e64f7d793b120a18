package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftgram/giftgram/internal/bot/dedup"
	"github.com/giftgram/giftgram/pkg/metrics"
)

// recoveryMiddleware converts handler panics into a logged error and a
// user-safe reply; a single bad update must not take the poller down.
func recoveryMiddleware(log *slog.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			defer func() {
				if r := recover(); r != nil {
					if log != nil {
						log.Error("handler panicked", slog.Any("panic", r))
					}
					_ = c.Send(fallbackErrorMessage)
				}
			}()

			return next(c)
		}
	}
}

// loggingMiddleware logs each handled update with its outcome.
func loggingMiddleware(log *slog.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			start := time.Now()
			err := next(c)

			if log != nil {
				attrs := []any{
					slog.String("command", commandName(c)),
					slog.Duration("duration", time.Since(start)),
				}
				if sender := c.Sender(); sender != nil {
					attrs = append(attrs, slog.Int64("user_id", sender.ID))
				}
				if err != nil {
					attrs = append(attrs, slog.Any("error", err))
					log.Error("update failed", attrs...)
				} else {
					log.Info("update handled", attrs...)
				}
			}

			return err
		}
	}
}

// metricsMiddleware reports command counters.
func metricsMiddleware() telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			err := next(c)

			status := "ok"
			if err != nil {
				status = "error"
			}
			metrics.RecordBotCommand(commandName(c), status)

			return err
		}
	}
}

// dedupMiddleware drops updates already claimed by another delivery.
func dedupMiddleware(deduper dedup.Deduper, ttl time.Duration, log *slog.Logger) telebot.MiddlewareFunc {
	return func(next telebot.HandlerFunc) telebot.HandlerFunc {
		return func(c telebot.Context) error {
			update := c.Update()

			first, err := deduper.FirstSeen(context.Background(), update.ID, ttl)
			if err == nil && !first {
				if log != nil {
					log.Debug("duplicate update dropped", slog.Int("update_id", update.ID))
				}
				return nil
			}

			return next(c)
		}
	}
}

// commandName extracts the leading slash command; free-form text collapses
// to one label to keep metric cardinality bounded.
func commandName(c telebot.Context) string {
	if c == nil {
		return "unknown"
	}

	text := c.Text()
	if strings.HasPrefix(text, "/") {
		if idx := strings.IndexByte(text, ' '); idx > 0 {
			return text[:idx]
		}
		return text
	}
	if text != "" {
		return "text"
	}

	return "unknown"
}
