// Package catalog resolves language codes to their translation bundles.
// Bundles are compiled into the binary, parsed lazily on first request per
// code, and cached read-only for the process lifetime. Picking up content
// changes requires a restart.
package catalog

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/domain"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle is one language's complete message set, keyed by dot-separated
// message path.
type Bundle map[string]string

// Catalog lazily loads and caches translation bundles for the supported
// locales. It is safe for concurrent use; a corrupt bundle poisons only its
// own code.
type Catalog struct {
	defaultLang string

	mu      sync.RWMutex
	bundles map[string]Bundle
}

// New constructs a Catalog with domain.DefaultLanguage as the fallback.
func New() *Catalog {
	return &Catalog{
		defaultLang: domain.DefaultLanguage,
		bundles:     make(map[string]Bundle),
	}
}

// DefaultLanguage returns the catalog's fallback locale code.
func (c *Catalog) DefaultLanguage() string {
	return c.defaultLang
}

// Languages returns the supported locale codes.
func (c *Catalog) Languages() []string {
	return domain.SupportedLanguages()
}

// Resolve returns the bundle for code, validating its shape and membership in
// the supported set first. The code is lowercased before validation, so "EN"
// resolves; the strict shape check lives in domain.IsValidLanguageShape.
// Unparsable bundle content fails with a CatalogCorrupt error scoped to that
// one code; all other codes keep serving.
func (c *Catalog) Resolve(code string) (Bundle, error) {
	code = strings.ToLower(strings.TrimSpace(code))

	if !domain.IsValidLanguageShape(code) {
		return nil, apperrors.InvalidLanguageCode(code)
	}
	if !domain.IsSupportedLanguage(code) {
		return nil, apperrors.UnsupportedLanguage(code, domain.SupportedLanguages())
	}

	c.mu.RLock()
	bundle, ok := c.bundles[code]
	c.mu.RUnlock()
	if ok {
		return bundle, nil
	}

	bundle, err := loadBundle(code)
	if err != nil {
		return nil, err
	}

	// Two requests may race on the first load of a code; both parses read the
	// same embedded bytes so the later write is identical to the earlier one.
	c.mu.Lock()
	c.bundles[code] = bundle
	c.mu.Unlock()

	return bundle, nil
}

func loadBundle(code string) (Bundle, error) {
	data, err := localeFS.ReadFile(fmt.Sprintf("locales/%s.yaml", code))
	if err != nil {
		return nil, apperrors.CatalogCorrupt(code, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.CatalogCorrupt(code, err)
	}
	if len(raw) == 0 {
		return nil, apperrors.CatalogCorrupt(code, fmt.Errorf("bundle %s is empty", code))
	}

	bundle := make(Bundle)
	flatten("", raw, bundle)
	if len(bundle) == 0 {
		return nil, apperrors.CatalogCorrupt(code, fmt.Errorf("bundle %s has no string entries", code))
	}

	return bundle, nil
}

func flatten(prefix string, in map[string]any, out Bundle) {
	for key, value := range in {
		if key == "" {
			continue
		}

		nextKey := key
		if prefix != "" {
			nextKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			out[nextKey] = v
		case map[string]any:
			flatten(nextKey, v, out)
		}
	}
}
