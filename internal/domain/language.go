package domain

import "regexp"

// supportedLanguages is the closed set of locales the platform ships bundles
// for. Adding a language means adding a bundle file and extending this list;
// there is no runtime registration.
var supportedLanguages = []string{"en", "ar", "fa", "ru", "de", "zh"}

var languageCodeShape = regexp.MustCompile(`^[a-z]{2}$`)

// SupportedLanguages returns a copy of the supported locale codes.
func SupportedLanguages() []string {
	out := make([]string, len(supportedLanguages))
	copy(out, supportedLanguages)
	return out
}

// IsSupportedLanguage reports whether code is in the supported set.
func IsSupportedLanguage(code string) bool {
	for _, lang := range supportedLanguages {
		if lang == code {
			return true
		}
	}
	return false
}

// IsValidLanguageShape reports whether code looks like a two-lowercase-letter
// locale code, regardless of whether it is supported. No normalization
// happens here; callers that accept mixed case must lowercase first, as the
// catalog does.
func IsValidLanguageShape(code string) bool {
	return languageCodeShape.MatchString(code)
}
