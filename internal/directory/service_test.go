package directory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/directory"
	"github.com/giftgram/giftgram/internal/domain"
)

// memRepo implements Repository with the same atomicity contract as the
// Postgres upsert: each call is one serialized read-modify-write.
type memRepo struct {
	mu      sync.Mutex
	rows    map[int64]domain.User
	upserts int
	failing bool
}

func newMemRepo() *memRepo {
	return &memRepo{rows: make(map[int64]domain.User)}
}

func (r *memRepo) Upsert(ctx context.Context, payload *domain.UserPayload) (*domain.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failing {
		return nil, false, apperrors.StorageUnavailable(context.DeadlineExceeded)
	}

	r.upserts++
	now := time.Now().UTC()

	existing, ok := r.rows[payload.ID]

	user := domain.User{
		ID:                      payload.ID,
		IsBot:                   payload.IsBot,
		FirstName:               payload.FirstName,
		LastName:                payload.LastName,
		Username:                payload.Username,
		LanguageCode:            payload.LanguageCode,
		IsPremium:               payload.IsPremium,
		AddedToAttachmentMenu:   payload.AddedToAttachmentMenu,
		CanJoinGroups:           payload.CanJoinGroups,
		CanReadAllGroupMessages: payload.CanReadAllGroupMessages,
		SupportsInlineQueries:   payload.SupportsInlineQueries,
		PreferredLanguage:       domain.DefaultLanguage,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	if ok {
		user.PreferredLanguage = existing.PreferredLanguage
		user.CreatedAt = existing.CreatedAt
	}

	r.rows[payload.ID] = user

	return &user, !ok, nil
}

func (r *memRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.rows[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	return &user, nil
}

func (r *memRepo) SetPreferredLanguage(ctx context.Context, id int64, lang string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.rows[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}

	user.PreferredLanguage = lang
	user.UpdatedAt = time.Now().UTC()
	r.rows[id] = user

	return &user, nil
}

func (r *memRepo) Ping(ctx context.Context) error {
	if r.failing {
		return apperrors.StorageUnavailable(context.DeadlineExceeded)
	}
	return nil
}

func (r *memRepo) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

func TestFindOrCreateIdempotent(t *testing.T) {
	svc := directory.NewService(newMemRepo(), nil)
	ctx := context.Background()

	payload := &domain.UserPayload{ID: 42, FirstName: "Ana"}

	first, created, err := svc.FindOrCreate(ctx, payload)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "en", first.PreferredLanguage)
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	second, created, err := svc.FindOrCreate(ctx, payload)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.FirstName, second.FirstName)
	assert.Equal(t, first.PreferredLanguage, second.PreferredLanguage)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
}

func TestFindOrCreateOverwritesPlatformFields(t *testing.T) {
	svc := directory.NewService(newMemRepo(), nil)
	ctx := context.Background()

	first, _, err := svc.FindOrCreate(ctx, &domain.UserPayload{ID: 42, FirstName: "Ana"})
	require.NoError(t, err)

	second, created, err := svc.FindOrCreate(ctx, &domain.UserPayload{ID: 42, FirstName: "Anna"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Anna", second.FirstName)
	assert.Equal(t, "en", second.PreferredLanguage)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestFindOrCreatePreservesPreference(t *testing.T) {
	repo := newMemRepo()
	svc := directory.NewService(repo, nil)
	ctx := context.Background()

	_, _, err := svc.FindOrCreate(ctx, &domain.UserPayload{ID: 7, FirstName: "Sara"})
	require.NoError(t, err)

	_, err = svc.SetPreferredLanguage(ctx, 7, "ar")
	require.NoError(t, err)

	user, _, err := svc.FindOrCreate(ctx, &domain.UserPayload{ID: 7, FirstName: "Sara", Username: "sara_g"})
	require.NoError(t, err)
	assert.Equal(t, "ar", user.PreferredLanguage)
}

func TestFindOrCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload *domain.UserPayload
	}{
		{name: "nil payload", payload: nil},
		{name: "empty payload", payload: &domain.UserPayload{}},
		{name: "missing id", payload: &domain.UserPayload{FirstName: "Ana"}},
		{name: "negative id", payload: &domain.UserPayload{ID: -1, FirstName: "Ana"}},
		{name: "missing first name", payload: &domain.UserPayload{ID: 42}},
		{name: "blank first name", payload: &domain.UserPayload{ID: 42, FirstName: "   "}},
	}

	repo := newMemRepo()
	svc := directory.NewService(repo, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.FindOrCreate(context.Background(), tt.payload)
			require.Error(t, err)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}

	// Validation rejections never reach storage.
	assert.Equal(t, 0, repo.upsertCount())
}

func TestConcurrentDuplicateUpserts(t *testing.T) {
	repo := newMemRepo()
	svc := directory.NewService(repo, nil)

	payload := &domain.UserPayload{ID: 99, FirstName: "Omid", Username: "omid_g", IsPremium: true}

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := svc.FindOrCreate(context.Background(), payload); err != nil {
				t.Errorf("find or create: %v", err)
			}
		}()
	}
	wg.Wait()

	user, err := svc.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, int64(99), user.ID)
	assert.Equal(t, "Omid", user.FirstName)
	assert.Equal(t, "omid_g", user.Username)
	assert.True(t, user.IsPremium)
	assert.Equal(t, "en", user.PreferredLanguage)
	assert.Len(t, repo.rows, 1)
}

func TestSetPreferredLanguageValidation(t *testing.T) {
	svc := directory.NewService(newMemRepo(), nil)
	ctx := context.Background()

	_, err := svc.SetPreferredLanguage(ctx, 1, "english")
	assert.Equal(t, apperrors.KindInvalidLanguageCode, apperrors.KindOf(err))

	_, err = svc.SetPreferredLanguage(ctx, 1, "fr")
	assert.Equal(t, apperrors.KindUnsupportedLanguage, apperrors.KindOf(err))

	_, err = svc.SetPreferredLanguage(ctx, 0, "de")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	_, err = svc.SetPreferredLanguage(ctx, 1, "de")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFindByIDNeverCreates(t *testing.T) {
	repo := newMemRepo()
	svc := directory.NewService(repo, nil)

	_, err := svc.FindByID(context.Background(), 12345)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	assert.Empty(t, repo.rows)
}

// cancelObservingRepo records whether a write's context was cancelled while
// the statement was still running.
type cancelObservingRepo struct {
	*memRepo
	writeDuration      time.Duration
	sawCancellation    bool
	deadlinePropagates bool
}

func (r *cancelObservingRepo) Upsert(ctx context.Context, payload *domain.UserPayload) (*domain.User, bool, error) {
	if _, ok := ctx.Deadline(); ok {
		r.deadlinePropagates = true
	}

	select {
	case <-ctx.Done():
		r.sawCancellation = true
		return nil, false, apperrors.StorageUnavailable(ctx.Err())
	case <-time.After(r.writeDuration):
	}

	return r.memRepo.Upsert(ctx, payload)
}

func TestFindOrCreateCompletesAfterCallerCancels(t *testing.T) {
	repo := &cancelObservingRepo{
		memRepo:       newMemRepo(),
		writeDuration: 300 * time.Millisecond,
	}
	svc := directory.NewService(repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	user, created, err := svc.FindOrCreate(ctx, &domain.UserPayload{ID: 42, FirstName: "Ana"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(42), user.ID)

	// The write runs to completion; only the response may be discarded.
	assert.False(t, repo.sawCancellation)
	// Detaching from the caller must not drop the query timeout.
	assert.True(t, repo.deadlinePropagates)
}

func TestStorageUnavailableSurfaces(t *testing.T) {
	repo := newMemRepo()
	repo.failing = true
	svc := directory.NewService(repo, nil)

	_, _, err := svc.FindOrCreate(context.Background(), &domain.UserPayload{ID: 1, FirstName: "Ana"})
	assert.Equal(t, apperrors.KindStorageUnavailable, apperrors.KindOf(err))

	assert.Equal(t, apperrors.KindStorageUnavailable, apperrors.KindOf(svc.Ping(context.Background())))
}
