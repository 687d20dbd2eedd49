package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxRequestBodySize caps request bodies at 1 MB. The largest legitimate
// payload is a task with a long description; anything bigger is abuse.
const maxRequestBodySize = 1 << 20

// validate is the shared validator instance. validator.Validate is
// concurrency-safe and caches struct metadata, so a single instance
// serves all handlers.
var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSON decodes the request body into dst and rejects unknown
// fields and trailing data. Callers validate the result separately with
// ValidateRequest.
func DecodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("decoding request body: %w", err)
	}
	if dec.More() {
		return errors.New("request body contains trailing data")
	}
	return nil
}

// ValidateRequest checks dst against its validate tags and converts any
// failures into field-level details for the validation envelope.
func ValidateRequest(dst any) []FieldError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	details := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, FieldError{
			Field:   fieldName(fe),
			Message: fieldMessage(fe),
		})
	}
	return details
}

// fieldName lowercases the first rune of the struct field name so the
// detail refers to the JSON field the client sent.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// fieldMessage renders a human-readable message for the common rules
// used by the request models.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldName(fe))
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}
