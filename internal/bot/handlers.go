package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	telebot "gopkg.in/telebot.v3"

	"github.com/giftgram/giftgram/internal/domain"
	"github.com/giftgram/giftgram/pkg/giftclient"
	"github.com/giftgram/giftgram/pkg/metrics"
)

// fallbackErrorMessage is the last-resort reply when even the adapter's
// built-in bundle cannot be consulted.
const fallbackErrorMessage = "Something went wrong. Please try again in a moment."

// handleStart registers the sender through the gateway and greets them in
// their preferred language. Gateway failures surface as the built-in
// fallback greeting, never as an error to the user.
func (b *Bot) handleStart(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	localized := b.client.Localize(context.Background(), payloadFromSender(sender))
	if localized.Degraded {
		metrics.RecordBotFallback()
	}

	key := "bot.welcome"
	if !localized.Created && localized.User != nil {
		key = "bot.welcome_back"
	}

	return c.Send(fmt.Sprintf(localized.T(key), sender.FirstName))
}

// handleLanguage processes "/language <code>", storing the explicit
// preference and confirming in the newly chosen language.
func (b *Bot) handleLanguage(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ctx := context.Background()

	code := strings.ToLower(strings.TrimSpace(c.Message().Payload))
	if code == "" {
		localized := b.client.Localize(ctx, payloadFromSender(sender))
		return c.Send(localized.T("bot.help"))
	}

	user, err := b.client.SetPreferredLanguage(ctx, sender.ID, code)
	if err != nil {
		return b.replyLanguageError(c, sender, code, err)
	}

	bundle, bundleErr := b.client.GetBundle(ctx, user.PreferredLanguage)
	if bundleErr != nil {
		metrics.RecordBotFallback()
		bundle = giftclient.FallbackBundle()
	}

	msg := bundle["bot.language_updated"]
	if msg == "" {
		msg = giftclient.FallbackBundle()["bot.error"]
		return c.Send(msg)
	}

	return c.Send(fmt.Sprintf(msg, user.PreferredLanguage))
}

// replyLanguageError distinguishes "that language does not exist" from
// infrastructure failures; both end in a coherent reply.
func (b *Bot) replyLanguageError(c telebot.Context, sender *telebot.User, code string, err error) error {
	var apiErr *giftclient.APIError
	if errors.As(err, &apiErr) && len(apiErr.SupportedLanguages) > 0 {
		localized := b.client.Localize(context.Background(), payloadFromSender(sender))
		supported := strings.Join(apiErr.SupportedLanguages, ", ")
		return c.Send(fmt.Sprintf(localized.T("bot.language_unknown"), supported))
	}

	if b.log != nil {
		b.log.Error("language change failed",
			slog.Int64("user_id", sender.ID),
			slog.String("code", code),
			slog.Any("error", err),
		)
	}

	metrics.RecordBotFallback()
	return c.Send(giftclient.FallbackBundle()["bot.error"])
}

// handleText answers any non-command text with localized usage help.
func (b *Bot) handleText(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	localized := b.client.Localize(context.Background(), payloadFromSender(sender))
	if localized.Degraded {
		metrics.RecordBotFallback()
	}

	return c.Send(localized.T("bot.help"))
}

func payloadFromSender(sender *telebot.User) *domain.UserPayload {
	return &domain.UserPayload{
		ID:                      sender.ID,
		IsBot:                   sender.IsBot,
		FirstName:               sender.FirstName,
		LastName:                sender.LastName,
		Username:                sender.Username,
		LanguageCode:            sender.LanguageCode,
		IsPremium:               sender.IsPremium,
		AddedToAttachmentMenu:   sender.AddedToMenu,
		CanJoinGroups:           sender.CanJoinGroups,
		CanReadAllGroupMessages: sender.CanReadMessages,
		SupportsInlineQueries:   sender.SupportsInline,
	}
}
