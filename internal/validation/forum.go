// Package validation holds the input rules for forum forms.
package validation

import (
	"errors"
	"strings"

	"climateforum/internal/models"

	vd "github.com/go-ozzo/ozzo-validation/v4"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// User-facing validation messages.
const (
	MsgAllFieldsRequired  = "All fields are required."
	MsgPasswordMismatch   = "Passwords do not match."
	MsgPasswordTooShort   = "Password must be at least 6 characters long."
	MsgLoginFieldsMissing = "Please enter both username and password."
	MsgInvalidCategory    = "Invalid category selected."
	MsgCommentEmpty       = "Comment cannot be empty."
	MsgReasonRequired     = "Please select a reason for reporting."
)

// SignupForm is the registration form as submitted.
type SignupForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// Normalize trims the identifying fields. Passwords are kept verbatim.
func (f SignupForm) Normalize() SignupForm {
	f.Username = strings.TrimSpace(f.Username)
	f.Email = strings.TrimSpace(f.Email)
	return f
}

// ValidateSignup checks, in order: every field present, passwords match, minimum length.
func ValidateSignup(f SignupForm) error {
	if err := vd.Validate([]string{f.Username, f.Email, f.Password, f.ConfirmPassword}, vd.Each(vd.Required)); err != nil {
		return models.NewValidationError(MsgAllFieldsRequired)
	}
	if f.Password != f.ConfirmPassword {
		return models.NewValidationError(MsgPasswordMismatch)
	}
	if err := vd.Validate(f.Password, vd.RuneLength(MinPasswordLength, 0)); err != nil {
		return models.NewValidationError(MsgPasswordTooShort)
	}
	return nil
}

// ValidateLogin checks that both credentials were supplied.
func ValidateLogin(username, password string) error {
	if err := vd.Validate([]string{strings.TrimSpace(username), password}, vd.Each(vd.Required)); err != nil {
		return models.NewValidationError(MsgLoginFieldsMissing)
	}
	return nil
}

// ValidatePost checks a new post. Inputs are expected to be trimmed.
func ValidatePost(category, title, content string) error {
	if err := vd.Validate([]string{category, title, content}, vd.Each(vd.Required)); err != nil {
		return models.NewValidationError(MsgAllFieldsRequired)
	}
	if err := vd.Validate(category, vd.By(isCategory)); err != nil {
		return models.NewValidationError(MsgInvalidCategory)
	}
	return nil
}

// ValidateComment rejects blank comments.
func ValidateComment(content string) error {
	if err := vd.Validate(strings.TrimSpace(content), vd.Required); err != nil {
		return models.NewValidationError(MsgCommentEmpty)
	}
	return nil
}

func isCategory(value interface{}) error {
	name, _ := value.(string)
	if !models.IsValidCategory(name) {
		return errors.New(MsgInvalidCategory)
	}
	return nil
}
