// Package directory is the durable, idempotent store of Telegram-identity
// keyed user records.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/domain"
)

// Repository defines persistence operations for users. Implementations return
// errors from the apperrors taxonomy only; no driver detail leaks upward.
type Repository interface {
	// Upsert inserts the payload as a new row or overwrites every
	// platform-sourced field of the existing row. created reports whether a
	// new row was inserted. The write is a single atomic statement keyed on
	// the identity column, so concurrent duplicate calls serialize inside the
	// database instead of interleaving field writes.
	Upsert(ctx context.Context, payload *domain.UserPayload) (user *domain.User, created bool, err error)

	// FindByID is read-only and never creates a record.
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// SetPreferredLanguage updates the one field upserts never touch.
	SetPreferredLanguage(ctx context.Context, id int64, lang string) (*domain.User, error)

	// Ping verifies storage connectivity for health reporting.
	Ping(ctx context.Context) error
}

type postgresRepository struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPostgresRepository creates a SQL-backed user repository.
func NewPostgresRepository(db *sql.DB, log *slog.Logger) Repository {
	return &postgresRepository{
		db:  db,
		log: log,
	}
}

const userColumns = `
	id, is_bot, first_name, last_name, username, language_code,
	is_premium, added_to_attachment_menu, can_join_groups,
	can_read_all_group_messages, supports_inline_queries,
	preferred_language, created_at, updated_at
`

// Upsert writes the full platform snapshot in one statement. preferred_language
// and created_at are deliberately absent from the DO UPDATE list; xmax = 0
// distinguishes a fresh insert from an overwrite.
func (r *postgresRepository) Upsert(ctx context.Context, payload *domain.UserPayload) (*domain.User, bool, error) {
	const query = `
		INSERT INTO users (
			id, is_bot, first_name, last_name, username, language_code,
			is_premium, added_to_attachment_menu, can_join_groups,
			can_read_all_group_messages, supports_inline_queries,
			preferred_language, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), now())
		ON CONFLICT (id) DO UPDATE SET
			is_bot = EXCLUDED.is_bot,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			username = EXCLUDED.username,
			language_code = EXCLUDED.language_code,
			is_premium = EXCLUDED.is_premium,
			added_to_attachment_menu = EXCLUDED.added_to_attachment_menu,
			can_join_groups = EXCLUDED.can_join_groups,
			can_read_all_group_messages = EXCLUDED.can_read_all_group_messages,
			supports_inline_queries = EXCLUDED.supports_inline_queries,
			updated_at = now()
		RETURNING ` + userColumns + `, (xmax = 0) AS created
	`

	row := r.db.QueryRowContext(ctx, query,
		payload.ID,
		payload.IsBot,
		payload.FirstName,
		payload.LastName,
		payload.Username,
		payload.LanguageCode,
		payload.IsPremium,
		payload.AddedToAttachmentMenu,
		payload.CanJoinGroups,
		payload.CanReadAllGroupMessages,
		payload.SupportsInlineQueries,
		domain.DefaultLanguage,
	)

	var user domain.User
	var created bool
	if err := scanUser(row, &user, &created); err != nil {
		r.logError("upsert", payload.ID, err)
		return nil, false, translateError(err)
	}

	return &user, created, nil
}

// FindByID retrieves a user by their Telegram identifier without creating one.
func (r *postgresRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)

	var user domain.User
	if err := scanUser(row, &user, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		r.logError("find_by_id", id, err)
		return nil, translateError(err)
	}

	return &user, nil
}

// SetPreferredLanguage persists an explicit locale preference change.
func (r *postgresRepository) SetPreferredLanguage(ctx context.Context, id int64, lang string) (*domain.User, error) {
	const query = `
		UPDATE users
		SET preferred_language = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns + `
	`

	row := r.db.QueryRowContext(ctx, query, id, lang)

	var user domain.User
	if err := scanUser(row, &user, nil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		r.logError("set_preferred_language", id, err)
		return nil, translateError(err)
	}

	return &user, nil
}

// Ping issues a liveness round trip against storage.
func (r *postgresRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return translateError(err)
	}
	return nil
}

func scanUser(row *sql.Row, user *domain.User, created *bool) error {
	var lastName, username, languageCode sql.NullString

	dest := []any{
		&user.ID,
		&user.IsBot,
		&user.FirstName,
		&lastName,
		&username,
		&languageCode,
		&user.IsPremium,
		&user.AddedToAttachmentMenu,
		&user.CanJoinGroups,
		&user.CanReadAllGroupMessages,
		&user.SupportsInlineQueries,
		&user.PreferredLanguage,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	if created != nil {
		dest = append(dest, created)
	}

	if err := row.Scan(dest...); err != nil {
		return err
	}

	user.LastName = lastName.String
	user.Username = username.String
	user.LanguageCode = languageCode.String

	return nil
}

func (r *postgresRepository) logError(operation string, id int64, err error) {
	if r.log == nil || errors.Is(err, sql.ErrNoRows) {
		return
	}

	r.log.Error("user repository operation failed",
		slog.String("operation", operation),
		slog.Int64("user_id", id),
		slog.Any("error", err),
	)
}
