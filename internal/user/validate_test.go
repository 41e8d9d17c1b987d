package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quangdng/go-shop-api/internal/config"
)

func testValidationConfig() config.ValidationConfig {
	return config.ValidationConfig{
		MaxNameLength:     50,
		MaxAddressLength:  100,
		PhoneLength:       10,
		MaxEmailLength:    255,
		MinPasswordLength: 6,
	}
}

func validInput() Input {
	return Input{
		Name:                 "Alice Example",
		Address:              "12 Example Street",
		Phone:                "0123456789",
		Email:                "alice@example.com",
		Password:             "password1",
		PasswordConfirmation: "password1",
	}
}

func TestValidateAcceptsValidInput(t *testing.T) {
	in := validInput()
	errs := in.Validate(testValidationConfig(), true)
	assert.Empty(t, errs)
}

func TestValidateFieldConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		field  string
	}{
		{"missing name", func(in *Input) { in.Name = "" }, "name"},
		{"name too long", func(in *Input) { in.Name = strings.Repeat("a", 51) }, "name"},
		{"missing address", func(in *Input) { in.Address = "" }, "address"},
		{"address too long", func(in *Input) { in.Address = strings.Repeat("a", 101) }, "address"},
		{"missing phone", func(in *Input) { in.Phone = "" }, "phone"},
		{"phone too short", func(in *Input) { in.Phone = "012345" }, "phone"},
		{"phone too long", func(in *Input) { in.Phone = "01234567890" }, "phone"},
		{"phone not numeric", func(in *Input) { in.Phone = "01234abcde" }, "phone"},
		{"missing email", func(in *Input) { in.Email = "" }, "email"},
		{"email without at sign", func(in *Input) { in.Email = "not-an-email" }, "email"},
		{"email with comma", func(in *Input) { in.Email = "user@example,com" }, "email"},
		{"email too long", func(in *Input) { in.Email = strings.Repeat("a", 250) + "@example.com" }, "email"},
		{"missing password", func(in *Input) { in.Password, in.PasswordConfirmation = "", "" }, "password"},
		{"password too short", func(in *Input) { in.Password, in.PasswordConfirmation = "short", "short" }, "password"},
		{"confirmation mismatch", func(in *Input) { in.PasswordConfirmation = "different1" }, "password_confirmation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			errs := in.Validate(testValidationConfig(), true)
			require.NotEmpty(t, errs)

			fields := make([]string, len(errs))
			for i, fe := range errs {
				fields[i] = fe.Field
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestValidateCountsCharactersNotBytes(t *testing.T) {
	cfg := testValidationConfig()

	// 50 accented characters occupy more than 50 bytes but are within limit
	in := validInput()
	in.Name = strings.Repeat("đ", cfg.MaxNameLength)
	assert.Empty(t, in.Validate(cfg, true))

	in = validInput()
	in.Name = strings.Repeat("đ", cfg.MaxNameLength+1)
	errs := in.Validate(cfg, true)
	require.NotEmpty(t, errs)
	assert.Equal(t, "name", errs[0].Field)

	in = validInput()
	in.Address = strings.Repeat("ữ", cfg.MaxAddressLength)
	assert.Empty(t, in.Validate(cfg, true))

	// a multibyte password below the minimum character count must be rejected
	// even when its byte length clears the bar
	in = validInput()
	in.Password = "密密密"
	in.PasswordConfirmation = in.Password
	errs = in.Validate(cfg, true)
	require.NotEmpty(t, errs)
	assert.Equal(t, "password", errs[0].Field)

	in = validInput()
	in.Password = strings.Repeat("密", cfg.MinPasswordLength)
	in.PasswordConfirmation = in.Password
	assert.Empty(t, in.Validate(cfg, true))
}

func TestValidateUpdateAllowsEmptyPassword(t *testing.T) {
	in := validInput()
	in.Password = ""
	in.PasswordConfirmation = ""

	errs := in.Validate(testValidationConfig(), false)
	assert.Empty(t, errs)
}

func TestValidateUpdateStillChecksProvidedPassword(t *testing.T) {
	in := validInput()
	in.Password = "short"
	in.PasswordConfirmation = "short"

	errs := in.Validate(testValidationConfig(), false)
	require.NotEmpty(t, errs)
	assert.Equal(t, "password", errs[0].Field)
}

func TestFieldErrorsError(t *testing.T) {
	errs := FieldErrors{
		{Field: "email", Message: "is required"},
		{Field: "name", Message: "is required"},
	}
	msg := errs.Error()
	assert.Contains(t, msg, "email is required")
	assert.Contains(t, msg, "name is required")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "foo@bar.com", NormalizeEmail("Foo@BaR.CoM"))
	assert.Equal(t, "already@lower.com", NormalizeEmail("already@lower.com"))
}
