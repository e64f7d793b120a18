package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	validator "github.com/go-playground/validator/v10"

	"github.com/giftgram/giftgram/internal/apperrors"
	"github.com/giftgram/giftgram/internal/domain"
	"github.com/giftgram/giftgram/pkg/metrics"
)

// handleFindOrCreate upserts the posted identity payload. A fresh insert
// answers 201, an overwrite of an existing row answers 200; both carry the
// full stored record.
func (rt *Router) handleFindOrCreate(w http.ResponseWriter, r *http.Request) {
	var payload domain.UserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		rt.fail(w, r, apperrors.Validation("request body must be a JSON user payload"))
		return
	}

	if err := rt.validate.Struct(payload); err != nil {
		rt.fail(w, r, validationError(err))
		return
	}

	user, created, err := rt.users.FindOrCreate(r.Context(), &payload)
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	metrics.RecordUserUpsert(created)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, user)
}

// handleSetLanguage is the explicit preference-update path; upserts never
// touch preferred_language.
func (rt *Router) handleSetLanguage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		rt.fail(w, r, apperrors.Validation("id must be a positive integer"))
		return
	}

	var body struct {
		PreferredLanguage string `json:"preferredLanguage" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rt.fail(w, r, apperrors.Validation("request body must contain preferredLanguage"))
		return
	}
	if err := rt.validate.Struct(body); err != nil {
		rt.fail(w, r, validationError(err))
		return
	}

	user, err := rt.users.SetPreferredLanguage(r.Context(), id, body.PreferredLanguage)
	if err != nil {
		rt.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// fail reports err centrally and writes the envelope.
func (rt *Router) fail(w http.ResponseWriter, r *http.Request, err error) {
	var kind apperrors.Kind
	if rt.errHandler != nil {
		kind = rt.errHandler.Handle(r.Context(), err)
	} else {
		kind = apperrors.KindOf(err)
	}

	metrics.RecordError(string(kind), severityOf(err))
	rt.writeError(w, err)
}

func severityOf(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr != nil {
		return string(appErr.Severity)
	}
	return string(apperrors.SeverityHigh)
}

// validationError renders validator.v10 failures as one actionable message.
func validationError(err error) error {
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperrors.Validation("request payload is malformed")
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		switch first.Tag() {
		case "required":
			return apperrors.Validationf("%s is required", jsonName(first.Field()))
		case "gt":
			return apperrors.Validationf("%s must be greater than %s", jsonName(first.Field()), first.Param())
		default:
			return apperrors.Validationf("%s is invalid", jsonName(first.Field()))
		}
	}

	return apperrors.Validation("request payload failed validation")
}

func jsonName(field string) string {
	if field == "ID" {
		return "id"
	}
	if field == "" {
		return field
	}
	// Remaining struct fields map to lower-camel JSON names.
	return string(field[0]|0x20) + field[1:]
}
