// Package validate checks request payloads with go-playground/validator and reports
// every failing field at once as apperr field errors keyed by JSON name.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"org-membership-service/internal/platform/apperr"
)

// bcryptMaxBytes is the longest password bcrypt will hash.
const bcryptMaxBytes = 72

// Validator validates structs tagged with `validate:"..."`.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that names fields by their json tag.
func New() *Validator {
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
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= bcryptMaxBytes
	})
	return &Validator{v: v}
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default returns a process-wide Validator for callers that do not carry their own.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = New() })
	return defaultV
}

// Struct validates s. It returns nil, or an *apperr.Error of KindValidation listing every failure.
func (v *Validator) Struct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal(fmt.Errorf("validate: %w", err))
	}
	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return apperr.Validation(fields)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "email":
		return "Invalid email"
	case "uuid", "uuid4":
		return "Invalid uuid"
	case "max":
		return fmt.Sprintf("String must contain at most %s character(s)", fe.Param())
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "password":
		return fmt.Sprintf("Password must be at most %d bytes", bcryptMaxBytes)
	default:
		return "Invalid value"
	}
}
