package apperrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/giftgram/giftgram/internal/apperrors"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.Kind
	}{
		{
			name: "validation",
			err:  apperrors.Validation("id is required"),
			want: apperrors.KindValidation,
		},
		{
			name: "storage unavailable",
			err:  apperrors.StorageUnavailable(context.DeadlineExceeded),
			want: apperrors.KindStorageUnavailable,
		},
		{
			name: "wrapped keeps kind",
			err:  fmt.Errorf("find or create: %w", apperrors.NotFound("user not found")),
			want: apperrors.KindNotFound,
		},
		{
			name: "foreign error maps to internal",
			err:  errors.New("boom"),
			want: apperrors.KindInternal,
		},
		{
			name: "nil maps to internal",
			err:  nil,
			want: apperrors.KindInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.KindOf(tt.err))
		})
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := apperrors.StorageUnavailable(cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.Retryable)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestUnsupportedLanguageCarriesSet(t *testing.T) {
	supported := []string{"en", "ar", "fa", "ru", "de", "zh"}
	err := apperrors.UnsupportedLanguage("fr", supported)

	assert.True(t, apperrors.Is(err, apperrors.KindUnsupportedLanguage))
	assert.Equal(t, supported, err.SupportedLanguages)
	assert.Contains(t, err.Message, `"fr"`)
	// The message never leaks internals, only the corrective set.
	assert.NoError(t, errors.Unwrap(err))
}
