package validate

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)

// validPhone accepts digits with optional leading plus, spaces, dashes and
// parentheses. Empty values are left to omitempty.
func validPhone(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
