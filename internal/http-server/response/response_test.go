package response

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]string{"token": "abc"})
	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something went wrong")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email    string `validate:"required,email"`
		Password string `validate:"required,excludesall= "`
		Tier     string `validate:"required,oneof=Free Silver Gold"`
	}

	validate := validator.New()

	tests := []struct {
		name     string
		in       payload
		expected string
	}{
		{
			name:     "missing required field",
			in:       payload{Email: "user@example.com", Password: "secret"},
			expected: "field Tier is a required field",
		},
		{
			name:     "invalid email",
			in:       payload{Email: "not-an-email", Password: "secret", Tier: "Free"},
			expected: "field Email must be a valid email address",
		},
		{
			name:     "oneof mismatch",
			in:       payload{Email: "user@example.com", Password: "secret", Tier: "Platinum"},
			expected: "field Tier must be one of: Free Silver Gold",
		},
		{
			name:     "forbidden characters",
			in:       payload{Email: "user@example.com", Password: "se cret", Tier: "Gold"},
			expected: "field Password contains forbidden characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Contains(t, resp.Error, tt.expected)
		})
	}
}
