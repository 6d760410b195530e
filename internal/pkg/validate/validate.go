// Package validate wraps go-playground/validator and reports failures as
// VALIDATION_FAILED faults with one entry per JSON field.
package validate

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/KirkDiggler/trainer-api/internal/errors"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with the custom rules registered
func Get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		if err := v.RegisterValidation("phone", validPhone); err != nil {
			panic(err)
		}
		if err := v.RegisterValidation("notblank", notBlank); err != nil {
			panic(err)
		}
		instance = v
	})
	return instance
}

// Struct validates s and returns nil or a VALIDATION_FAILED fault
func Struct(s any) error {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		// InvalidValidationError: s was not a struct
		return errors.Wrap(err, "validate")
	}

	vb := errors.NewValidationBuilder()
	for _, fe := range fieldErrs {
		vb.Field(fe.Field(), describe(fe))
	}
	return vb.Build()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "phone":
		return "must be a phone number"
	default:
		return fmt.Sprintf("failed the %s check", fe.Tag())
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
