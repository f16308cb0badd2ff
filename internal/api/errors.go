package api

import (
	"errors"
	"maps"
	"net/http"

	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/phrazzld/taskapi/internal/domain"
	"github.com/phrazzld/taskapi/internal/store"
)

// Client-facing error summaries.
const (
	MsgValidationFailed = "Validation Failed"
	MsgTaskNotFound     = "Task not found"
	MsgConflict         = "Conflict"
	MsgInternalError    = "Internal Server Error"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based on the
// error type. This prevents leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidFormat),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusUnprocessableEntity

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing summary for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgInternalError
	}

	switch MapErrorToStatusCode(err) {
	case http.StatusUnprocessableEntity:
		return MsgValidationFailed
	case http.StatusNotFound:
		return MsgTaskNotFound
	case http.StatusConflict:
		return MsgConflict
	default:
		return MsgInternalError
	}
}

// GetErrorDetails returns the per-field violations carried by err, or an
// empty map.
func GetErrorDetails(err error) map[string]string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) && verr.HasErrors() {
		return maps.Clone(verr.Fields)
	}
	return map[string]string{}
}

// HandleAPIError writes the error response for err and logs the redacted cause.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(
		w, r,
		MapErrorToStatusCode(err),
		GetSafeErrorMessage(err),
		GetErrorDetails(err),
		err,
	)
}
