package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskapi/internal/domain"
)

// BodyField is the details key used for errors that concern the whole body.
const BodyField = "body"

// Global validator instance for reuse. Field names in errors are the json names.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeJSON decodes the request body into v.
// The body must hold exactly one JSON value and must not be null.
// Malformed JSON and type mismatches are returned as a *domain.ValidationError.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)

	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return domain.NewValidationError(BodyField, msgJSONDecode)
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return domain.NewValidationError(BodyField, domain.MsgFieldRequired)
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return decodeError(err)
	}
	return nil
}

const msgJSONDecode = "JSON decode error"

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = BodyField
		}
		return domain.NewValidationError(field, "Input should be a valid "+jsonTypeName(typeErr.Type))
	case errors.Is(err, io.EOF):
		return domain.NewValidationError(BodyField, domain.MsgFieldRequired)
	default:
		return domain.NewValidationError(BodyField, msgJSONDecode)
	}
}

// ValidateRequest validates v with its `validate` struct tags.
// Violations are returned as a *domain.ValidationError keyed by json field name.
func ValidateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &domain.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), validationMessage(fe))
	}
	return verr.OrNil()
}

// validationMessage renders a validator failure in the API's message style.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return domain.MsgFieldRequired
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String should have at least %s %s", fe.Param(), plural("character", fe.Param()))
		}
		return "Input should be greater than or equal to " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("String should have at most %s %s", fe.Param(), plural("character", fe.Param()))
		}
		return "Input should be less than or equal to " + fe.Param()
	case "gte":
		return "Input should be greater than or equal to " + fe.Param()
	case "lte":
		return "Input should be less than or equal to " + fe.Param()
	case "datetime":
		return domain.MsgInvalidDate
	default:
		return "Invalid value"
	}
}

func plural(word, count string) string {
	if count == "1" {
		return word
	}
	return word + "s"
}

func jsonTypeName(t reflect.Type) string {
	if t == nil {
		return "value"
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "value"
	}
}
