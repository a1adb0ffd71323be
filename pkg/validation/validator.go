package validation

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"go-user-api/internal/apperr"
)

var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in error details.
// - Registers "emailfmt", the simple local@domain.tld rule the API
//   validates email against.
func Init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("emailfmt", func(fl validator.FieldLevel) bool {
		return emailRE.MatchString(strings.ToLower(strings.TrimSpace(fl.Field().String())))
	})
}

// FromBinding converts a ShouldBindJSON failure into a tagged error.
// Absent required fields map to MissingField; everything else is a
// ValidationFailure with per-field details.
func FromBinding(err error) error {
	if err == nil {
		return nil
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return apperr.Validation("Request body too large")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if strings.HasPrefix(fe.Tag(), "required") {
				return apperr.MissingField("Name and email are required")
			}
		}
		return apperr.Validation("Validation failed", ToDetails(verrs)...)
	}

	// Syntax errors, wrong types, truncated bodies.
	return apperr.Validation("Invalid request body")
}

// ToDetails renders validation errors as "field: message" strings for
// the error body's details array.
func ToDetails(err error) []string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return []string{"payload: invalid json"}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{"payload: invalid payload"}
	}

	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fe.Field()+": "+fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "emailfmt", "email":
		return "must be a valid email"
	case "max":
		return "must be at most " + fe.Param() + " characters long"
	case "min":
		return "must be at least " + fe.Param() + " characters long"
	default:
		return "is invalid"
	}
}
