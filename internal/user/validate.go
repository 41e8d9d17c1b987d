package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quangdng/go-shop-api/internal/config"
)

var (
	emailRegex = regexp.MustCompile(`(?i)^[\w+\-.]+@[a-z\d\-.]+\.[a-z]+$`)
	phoneRegex = regexp.MustCompile(`\d[0-9]\)*$`)
)

// FieldError describes a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is the structured error set returned by validation. A nil or
// empty set means the input was valid.
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Field + " " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *FieldErrors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Input carries the caller-supplied fields for creating or updating a user.
// Password is required on create and optional on update.
type Input struct {
	Name                 string `json:"name"`
	Address              string `json:"address"`
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Validate checks the static field constraints from the validation config.
// Uniqueness of email and phone is the store's job and surfaces separately.
func (in *Input) Validate(cfg config.ValidationConfig, isCreate bool) FieldErrors {
	var errs FieldErrors

	// Limits count characters, not bytes; names and addresses are routinely
	// multibyte.
	if in.Name == "" {
		errs.add("name", "is required")
	} else if utf8.RuneCountInString(in.Name) > cfg.MaxNameLength {
		errs.add("name", fmt.Sprintf("must be at most %d characters", cfg.MaxNameLength))
	}

	if in.Address == "" {
		errs.add("address", "is required")
	} else if utf8.RuneCountInString(in.Address) > cfg.MaxAddressLength {
		errs.add("address", fmt.Sprintf("must be at most %d characters", cfg.MaxAddressLength))
	}

	switch {
	case in.Phone == "":
		errs.add("phone", "is required")
	case len(in.Phone) != cfg.PhoneLength:
		errs.add("phone", fmt.Sprintf("must be exactly %d characters", cfg.PhoneLength))
	case !phoneRegex.MatchString(in.Phone):
		errs.add("phone", "is not a valid phone number")
	}

	switch {
	case in.Email == "":
		errs.add("email", "is required")
	case utf8.RuneCountInString(in.Email) > cfg.MaxEmailLength:
		errs.add("email", fmt.Sprintf("must be at most %d characters", cfg.MaxEmailLength))
	case !emailRegex.MatchString(in.Email):
		errs.add("email", "is not a valid email address")
	}

	if in.Password == "" {
		if isCreate {
			errs.add("password", "is required")
		}
	} else {
		if utf8.RuneCountInString(in.Password) < cfg.MinPasswordLength {
			errs.add("password", fmt.Sprintf("must be at least %d characters", cfg.MinPasswordLength))
		}
		if in.Password != in.PasswordConfirmation {
			errs.add("password_confirmation", "does not match password")
		}
	}

	return errs
}

// NormalizeEmail lowercases an email address. Applied before every persist so
// the case-insensitive uniqueness contract holds regardless of entry path.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}
