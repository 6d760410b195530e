package validate_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/trainer-api/internal/errors"
	"github.com/KirkDiggler/trainer-api/internal/pkg/validate"
)

type signup struct {
	Name  string `json:"name" validate:"notblank,max=5"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,phone"`
}

func TestStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validate.Struct(signup{Name: "Ada", Email: "ada@example.com", Phone: "+44 20 7946 0958"}))
	})

	t.Run("reports every field by json name", func(t *testing.T) {
		err := validate.Struct(signup{Name: "  ", Email: "nope", Phone: "call me"})
		require.Error(t, err)

		assert.True(t, errors.IsInvalidArgument(err))
		assert.Equal(t, errors.ReasonValidationFailed, errors.GetReason(err))

		fields, ok := errors.GetMeta(err)["validation_errors"].(map[string][]string)
		require.True(t, ok)
		assert.Equal(t, []string{"is required"}, fields["name"])
		assert.Equal(t, []string{"must be a valid email address"}, fields["email"])
		assert.Equal(t, []string{"must be a phone number"}, fields["phone"])

		c := errors.Classify(err)
		assert.Equal(t, http.StatusBadRequest, c.StatusCode)
		assert.Equal(t, "VALIDATION_FAILED", c.ErrorCode)
	})

	t.Run("max length", func(t *testing.T) {
		err := validate.Struct(signup{Name: "Augusta", Email: "ada@example.com"})
		require.Error(t, err)
		fields := errors.GetMeta(err)["validation_errors"].(map[string][]string)
		assert.Equal(t, []string{"must be no more than 5 characters"}, fields["name"])
	})

	t.Run("non struct", func(t *testing.T) {
		err := validate.Struct("not a struct")
		require.Error(t, err)
		assert.Equal(t, http.StatusInternalServerError, errors.Classify(err).StatusCode)
	})
}
