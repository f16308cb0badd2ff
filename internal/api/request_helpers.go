package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskapi/internal/api/shared"
	"github.com/phrazzld/taskapi/internal/domain"
)

const (
	msgInvalidInteger = "Input should be a valid integer"
	msgInvalidBoolean = "Input should be a valid boolean"
)

// getPathID extracts a task ID from the URL path parameters.
// A missing or non-integer value yields domain.ErrInvalidID wrapping a
// *domain.ValidationError that carries the field detail.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, invalidIDError(raw, domain.NewValidationError(paramName, domain.MsgFieldRequired))
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalidIDError(raw, domain.NewValidationError(paramName, msgInvalidInteger))
	}
	return id, nil
}

func invalidIDError(raw string, details *domain.ValidationError) error {
	return fmt.Errorf("%w %q: %w", domain.ErrInvalidID, raw, details)
}

// parseListQuery reads the GET /tasks query string. Tags may be given
// comma-separated, repeated, or both.
func parseListQuery(values url.Values) (ListTasksQuery, error) {
	q := ListTasksQuery{
		Limit: domain.DefaultListLimit,
		Tags:  []string{},
	}
	verr := &domain.ValidationError{}

	if raw, ok := lookup(values, "completed"); ok {
		b, valid := parseBool(raw)
		if valid {
			q.Completed = &b
		} else {
			verr.Add("completed", msgInvalidBoolean)
		}
	}
	if raw, ok := lookup(values, "priority"); ok {
		if p, err := strconv.Atoi(raw); err == nil {
			q.Priority = &p
		} else {
			verr.Add("priority", msgInvalidInteger)
		}
	}
	if raw, ok := lookup(values, "limit"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Limit = n
		} else {
			verr.Add("limit", msgInvalidInteger)
		}
	}
	if raw, ok := lookup(values, "offset"); ok {
		if n, err := strconv.Atoi(raw); err == nil {
			q.Offset = n
		} else {
			verr.Add("offset", msgInvalidInteger)
		}
	}
	for _, raw := range values["tags"] {
		q.Tags = append(q.Tags, strings.Split(raw, ",")...)
	}

	if err := verr.OrNil(); err != nil {
		return q, err
	}
	if err := shared.ValidateRequest(q); err != nil {
		return q, err
	}
	return q, nil
}

func lookup(values url.Values, key string) (string, bool) {
	if !values.Has(key) {
		return "", false
	}
	return strings.TrimSpace(values.Get(key)), true
}

// parseBool accepts the usual spellings of a boolean query parameter.
func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "true", "1", "yes", "on", "t", "y":
		return true, true
	case "false", "0", "no", "off", "f", "n":
		return false, true
	default:
		return false, false
	}
}
