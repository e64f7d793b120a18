package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/giftgram/giftgram/internal/apperrors"
)

// errorBody is the machine-parsable envelope returned on every failure.
type errorBody struct {
	Category           string   `json:"category"`
	Message            string   `json:"message"`
	SupportedLanguages []string `json:"supportedLanguages,omitempty"`
	Detail             string   `json:"detail,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err's kind to a transport status and writes the uniform
// error envelope. Raw internal detail is only included outside production.
func (rt *Router) writeError(w http.ResponseWriter, err error) {
	kind := apperrors.KindOf(err)

	body := errorBody{
		Category: string(kind),
		Message:  "unexpected internal error",
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr != nil {
		body.Message = appErr.Message
		body.SupportedLanguages = appErr.SupportedLanguages
	}

	if !rt.production {
		if cause := errors.Unwrap(err); cause != nil {
			body.Detail = cause.Error()
		}
	}

	writeJSON(w, statusFor(kind), errorEnvelope{Error: body})
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation, apperrors.KindInvalidLanguageCode:
		return http.StatusBadRequest
	case apperrors.KindUnsupportedLanguage, apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindStorageUnavailable, apperrors.KindSchemaMissing:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
