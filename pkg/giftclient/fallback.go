package giftclient

import (
	"context"

	"github.com/giftgram/giftgram/internal/domain"
)

// fallbackBundle is the adapter's built-in minimal message set, served when
// the gateway cannot be reached. The end user always receives a coherent
// reply, never raw error text.
var fallbackBundle = map[string]string{
	"bot.welcome":      "Welcome to Giftgram, %s!",
	"bot.welcome_back": "Good to see you again, %s!",
	"bot.help":         "Commands: /start — register, /language <code> — change language.",
	"bot.error":        "Something went wrong. Please try again in a moment.",
}

// FallbackBundle returns a copy of the built-in message set.
func FallbackBundle() map[string]string {
	out := make(map[string]string, len(fallbackBundle))
	for k, v := range fallbackBundle {
		out[k] = v
	}
	return out
}

// LocalizedUser is the outcome of a Localize call: the user record (when the
// upsert succeeded), the message bundle to render with, and whether the
// bundle is the degraded built-in set.
type LocalizedUser struct {
	User     *domain.User
	Created  bool
	Bundle   map[string]string
	Language string
	Degraded bool
}

// Localize chains findOrCreate with the matching translation bundle. On any
// failure of either call (timeout, transport error, non-success status,
// unsupported language) it falls back to the built-in messages instead of
// returning an error. No retries are attempted; interactive latency stays
// bounded by the client timeout.
func (c *Client) Localize(ctx context.Context, payload *domain.UserPayload) *LocalizedUser {
	result, err := c.FindOrCreateUser(ctx, payload)
	if err != nil {
		return &LocalizedUser{
			Bundle:   FallbackBundle(),
			Language: domain.DefaultLanguage,
			Degraded: true,
		}
	}

	lang := result.User.PreferredLanguage
	if lang == "" {
		lang = domain.DefaultLanguage
	}

	bundle, err := c.GetBundle(ctx, lang)
	if err != nil {
		return &LocalizedUser{
			User:     result.User,
			Created:  result.Created,
			Bundle:   FallbackBundle(),
			Language: domain.DefaultLanguage,
			Degraded: true,
		}
	}

	return &LocalizedUser{
		User:     result.User,
		Created:  result.Created,
		Bundle:   bundle,
		Language: lang,
	}
}

// T resolves key against the localized bundle, falling back to the built-in
// set and finally the key itself.
func (l *LocalizedUser) T(key string) string {
	if l == nil {
		return key
	}
	if value, ok := l.Bundle[key]; ok && value != "" {
		return value
	}
	if value, ok := fallbackBundle[key]; ok {
		return value
	}
	return key
}
