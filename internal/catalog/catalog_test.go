package catalog_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/catalog"
	"github.com/giftgram/giftgram/internal/domain"
)

func TestResolveSupportedCodes(t *testing.T) {
	c := catalog.New()

	for _, code := range domain.SupportedLanguages() {
		bundle, err := c.Resolve(code)
		require.NoError(t, err, "code %s", code)
		assert.NotEmpty(t, bundle, "code %s", code)
		assert.NotEmpty(t, bundle["bot.welcome"], "code %s must have bot.welcome", code)
	}
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantKind apperrors.Kind
	}{
		{name: "uppercase", code: "EN", wantKind: ""},
		{name: "too long", code: "eng", wantKind: apperrors.KindInvalidLanguageCode},
		{name: "too short", code: "e", wantKind: apperrors.KindInvalidLanguageCode},
		{name: "digits", code: "12", wantKind: apperrors.KindInvalidLanguageCode},
		{name: "empty", code: "", wantKind: apperrors.KindInvalidLanguageCode},
		{name: "well formed but unsupported", code: "fr", wantKind: apperrors.KindUnsupportedLanguage},
	}

	c := catalog.New()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Resolve(tt.code)
			if tt.wantKind == "" {
				// Codes are normalized to lowercase before validation.
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperrors.KindOf(err))
		})
	}
}

func TestUnsupportedErrorCarriesExactSet(t *testing.T) {
	c := catalog.New()

	_, err := c.Resolve("fr")
	require.Error(t, err)

	var appErr *apperrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.ElementsMatch(t, []string{"en", "ar", "fa", "ru", "de", "zh"}, appErr.SupportedLanguages)
}

func TestResolveCachesBundle(t *testing.T) {
	c := catalog.New()

	first, err := c.Resolve("de")
	require.NoError(t, err)

	second, err := c.Resolve("de")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestConcurrentFirstLoads(t *testing.T) {
	c := catalog.New()

	const n = 32
	results := make([]catalog.Bundle, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bundle, err := c.Resolve("zh")
			if err != nil {
				t.Errorf("resolve: %v", err)
				return
			}
			results[i] = bundle
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		assert.Equal(t, results[0], results[i])
	}
}
