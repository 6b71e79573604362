package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Code     string `json:"code" validate:"required,len=6"`
	Password string `json:"password" validate:"omitempty,password"`
	Slug     string `json:"slug" validate:"omitempty,slug,max=80"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func TestV10Validate(t *testing.T) {
	v, err := NewV10()
	require.NoError(t, err)

	tests := []struct {
		name   string
		in     sample
		fields []string
	}{
		{
			name: "valid",
			in:   sample{Email: "a@x.com", Code: "123456", Password: "secret", Slug: "anxiety-circle", Phone: "+14155552671", Timezone: "Asia/Jakarta"},
		},
		{
			name:   "missing",
			in:     sample{},
			fields: []string{"email", "code"},
		},
		{
			name:   "bad values",
			in:     sample{Email: "nope", Code: "12345", Password: "12345", Slug: "no spaces", Phone: "0812", Timezone: "Mars/Base"},
			fields: []string{"email", "code", "password", "slug", "phone", "timezone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.in)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}

			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Len(t, ve.Values(), len(tt.fields))
			for _, f := range tt.fields {
				assert.Contains(t, ve, f)
			}
		})
	}
}

func TestV10CustomMessages(t *testing.T) {
	v, err := NewV10()
	require.NoError(t, err)

	err = v.Validate(sample{Email: "a@x.com", Code: "123456", Password: "123", Phone: "+1"})

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password must be at least 6 characters and at most 72 bytes", ve["password"])
	assert.Equal(t, "phone must be a valid phone number", ve["phone"])
}

func TestV10PasswordLength(t *testing.T) {
	v, err := NewV10()
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{name: "six multibyte runes", password: strings.Repeat("é", 6), ok: true},
		{name: "72 bytes", password: strings.Repeat("é", 36), ok: true},
		{name: "40 runes over 72 bytes", password: strings.Repeat("é", 40)},
		{name: "73 ascii", password: strings.Repeat("a", 73)},
		{name: "five runes", password: "ééééé"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(sample{Email: "a@x.com", Code: "123456", Password: tt.password})
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve, "password")
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone(" +1 415-555-2671 ")
	require.NoError(t, err)
	assert.Equal(t, "+14155552671", got)

	_, err = NormalizePhone("4155552671")
	assert.ErrorIs(t, err, ErrInvalidPhone)
}

func TestValidationErrorString(t *testing.T) {
	ve := ValidationError{"code": "bad", "email": "worse"}
	assert.Equal(t, `code="bad" email="worse"`, ve.Error())
	assert.Equal(t, "validation error", ValidationError{}.Error())
}
