// Package apperrors defines the closed set of error kinds used across the
// gift platform. Storage and catalog code translate their underlying failures
// into these kinds exactly once; nothing above them inspects driver internals.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one failure category from the platform's error taxonomy.
type Kind string

const (
	KindValidation          Kind = "validation_error"
	KindStorageUnavailable  Kind = "storage_unavailable"
	KindSchemaMissing       Kind = "schema_missing"
	KindInvalidLanguageCode Kind = "invalid_language_code"
	KindUnsupportedLanguage Kind = "unsupported_language"
	KindCatalogCorrupt      Kind = "catalog_corrupt"
	KindNotFound            Kind = "not_found"
	KindInternal            Kind = "internal_error"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Error carries a kind plus operator-facing detail. The Message is safe to
// return to API callers; the wrapped cause is not.
type Error struct {
	Kind      Kind
	Message   string
	Severity  Severity
	Retryable bool

	// SupportedLanguages is populated for language errors so the caller can
	// self-correct without a second round trip.
	SupportedLanguages []string

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// KindOf extracts the kind from err, returning KindInternal for errors that
// did not originate from this package.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func Validation(msg string) *Error {
	return &Error{
		Kind:     KindValidation,
		Message:  msg,
		Severity: SeverityLow,
	}
}

func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...))
}

func StorageUnavailable(cause error) *Error {
	return &Error{
		Kind:      KindStorageUnavailable,
		Message:   "storage is temporarily unavailable",
		Severity:  SeverityHigh,
		Retryable: true,
		cause:     cause,
	}
}

func SchemaMissing(cause error) *Error {
	return &Error{
		Kind:     KindSchemaMissing,
		Message:  "storage schema is missing or incomplete",
		Severity: SeverityCritical,
		cause:    cause,
	}
}

func InvalidLanguageCode(code string) *Error {
	return &Error{
		Kind:     KindInvalidLanguageCode,
		Message:  fmt.Sprintf("language code %q must be two lowercase letters", code),
		Severity: SeverityLow,
	}
}

func UnsupportedLanguage(code string, supported []string) *Error {
	return &Error{
		Kind:               KindUnsupportedLanguage,
		Message:            fmt.Sprintf("language %q is not supported, available: %s", code, strings.Join(supported, ", ")),
		Severity:           SeverityLow,
		SupportedLanguages: supported,
	}
}

func CatalogCorrupt(code string, cause error) *Error {
	return &Error{
		Kind:     KindCatalogCorrupt,
		Message:  fmt.Sprintf("translation bundle for %q is unreadable", code),
		Severity: SeverityHigh,
		cause:    cause,
	}
}

func NotFound(msg string) *Error {
	return &Error{
		Kind:     KindNotFound,
		Message:  msg,
		Severity: SeverityLow,
	}
}

func Internal(cause error) *Error {
	return &Error{
		Kind:      KindInternal,
		Message:   "unexpected internal error",
		Severity:  SeverityHigh,
		Retryable: false,
		cause:     cause,
	}
}
