package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/mindflow/backend/pkg/httpx"
)

var validate *validator.Validate

var (
	boardColumnRe = regexp.MustCompile(`^[a-z0-9_-]{1,50}$`)
	colorRe       = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// board_column: lower-case column label as stored on the board.
	_ = validate.RegisterValidation("board_column", func(fl validator.FieldLevel) bool {
		return boardColumnRe.MatchString(fl.Field().String())
	})
	// color6: #RRGGBB only; the built-in hexcolor also accepts #RGB.
	_ = validate.RegisterValidation("color6", func(fl validator.FieldLevel) bool {
		return colorRe.MatchString(fl.Field().String())
	})
	// tag: a single task tag, which must not contain the storage separator.
	_ = validate.RegisterValidation("tag", func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return strings.TrimSpace(v) != "" && !strings.Contains(v, ",")
	})

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !isValidationErrors(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	return errors.As(err, target)
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "numeric":
		return "Must be a numeric value"
	case "alpha":
		return "Must contain only letters"
	case "alphanum":
		return "Must contain only letters and numbers"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	case "board_column":
		return "Must be 1-50 lower-case letters, digits, '_' or '-'"
	case "color6":
		return "Must be a #RRGGBB color"
	case "tag":
		return "Tags must be non-empty and must not contain commas"
	case "gtefield":
		return fmt.Sprintf("Must not be before %s", e.Param())
	case "isdefault":
		return "Must not be set on this endpoint"
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// ValidateRequest decodes the JSON request body into T, validates it, and
// writes an appropriate error response if either step fails.
// Returns (parsedStruct, true) on success or (nil, false) on failure.
func ValidateRequest[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	if err := Validate(&req); err != nil {
		httpx.ValidationError(w, FormatValidationErrors(err))
		return nil, false
	}
	return &req, true
}
