package shared

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=2,max=50"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("valid body", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","name":"Ana"}`))
		var dst samplePayload
		require.NoError(t, DecodeJSON(r, &dst))
		assert.Equal(t, "a@b.co", dst.Email)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":`))
		var dst samplePayload
		assert.Error(t, DecodeJSON(r, &dst))
	})

	t.Run("trailing data", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co"}{"extra":1}`))
		var dst samplePayload
		assert.Error(t, DecodeJSON(r, &dst))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, ValidateRequest(&samplePayload{Email: "a@b.co", Name: "Ana"}))
	})

	t.Run("details use json-style field names", func(t *testing.T) {
		t.Parallel()

		details := ValidateRequest(&samplePayload{Email: "nope", Name: "A"})
		require.Len(t, details, 2)

		byField := map[string]string{}
		for _, d := range details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "must be a valid email address", byField["email"])
		assert.Equal(t, "must be at least 2 characters", byField["name"])
	})

	t.Run("required message names the field", func(t *testing.T) {
		t.Parallel()

		details := ValidateRequest(&samplePayload{})
		require.NotEmpty(t, details)

		byField := map[string]string{}
		for _, d := range details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "email is required", byField["email"])
	})
}
