package directory

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/domain"
)

// queryTimeout bounds every storage call issued by the service so a stalled
// connection fails the request instead of hanging it.
const queryTimeout = 5 * time.Second

// Service provides the directory's business operations. Validation happens
// here, before any storage round trip.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// NewService constructs a Service backed by repo.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FindOrCreate validates the payload and upserts it. Calling it twice with
// identical input converges to the same stored state; only updated_at moves.
func (s *Service) FindOrCreate(ctx context.Context, payload *domain.UserPayload) (*domain.User, bool, error) {
	if err := validatePayload(payload); err != nil {
		return nil, false, err
	}

	// A caller disconnect must not abort the write mid-statement; only the
	// response is discarded. The timeout still bounds the call.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queryTimeout)
	defer cancel()

	user, created, err := s.repo.Upsert(ctx, payload)
	if err != nil {
		return nil, false, err
	}

	if s.log != nil {
		s.log.Info("user upserted",
			slog.Int64("user_id", user.ID),
			slog.Bool("created", created),
		)
	}

	return user, created, nil
}

// FindByID returns the stored record for id, or a NotFound error. It never
// creates a record.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.Validation("id must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.repo.FindByID(ctx, id)
}

// SetPreferredLanguage records an explicit locale choice for an existing
// user. This is the only operation that mutates preferred_language.
func (s *Service) SetPreferredLanguage(ctx context.Context, id int64, lang string) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.Validation("id must be a positive integer")
	}

	lang = strings.ToLower(strings.TrimSpace(lang))
	if !domain.IsValidLanguageShape(lang) {
		return nil, apperrors.InvalidLanguageCode(lang)
	}
	if !domain.IsSupportedLanguage(lang) {
		return nil, apperrors.UnsupportedLanguage(lang, domain.SupportedLanguages())
	}

	// Writes run to completion even if the caller goes away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), queryTimeout)
	defer cancel()

	return s.repo.SetPreferredLanguage(ctx, id, lang)
}

// Ping reports storage reachability within the service's query timeout.
func (s *Service) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.repo.Ping(ctx)
}

func validatePayload(payload *domain.UserPayload) error {
	if payload == nil {
		return apperrors.Validation("payload is required")
	}
	if payload.ID <= 0 {
		return apperrors.Validation("id must be a positive integer")
	}
	if strings.TrimSpace(payload.FirstName) == "" {
		return apperrors.Validation("firstName must not be empty")
	}
	return nil
}
