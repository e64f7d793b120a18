package gateway

import (
	"net/http"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/pkg/metrics"
)

// languagesResponse describes the closed locale enumeration.
type languagesResponse struct {
	SupportedLanguages []string `json:"supportedLanguages"`
	DefaultLanguage    string   `json:"defaultLanguage"`
}

// handleListLanguages returns the fixed enumeration plus the declared default.
func (rt *Router) handleListLanguages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, languagesResponse{
		SupportedLanguages: rt.bundles.Languages(),
		DefaultLanguage:    rt.bundles.DefaultLanguage(),
	})
}

// handleGetBundle resolves one language's bundle as a flat key/value object.
func (rt *Router) handleGetBundle(w http.ResponseWriter, r *http.Request) {
	lang := r.PathValue("lang")

	bundle, err := rt.bundles.Resolve(lang)
	if err != nil {
		metrics.RecordBundleRequest(lang, string(apperrors.KindOf(err)))
		rt.fail(w, r, err)
		return
	}

	metrics.RecordBundleRequest(lang, "ok")
	writeJSON(w, http.StatusOK, bundle)
}
