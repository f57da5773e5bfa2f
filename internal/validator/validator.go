package validator

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const (
	ErrRequired   = "is required"
	ErrEmail      = "must be a valid email address"
	ErrMinValue   = "must be at least %s"
	ErrMaxValue   = "must be at most %s"
	ErrGreaterVal = "must be greater than %s"
	ErrUnique     = "must not contain duplicates"
	ErrOneOf      = "must be one of: %s"
	ErrPassword   = "must be 8-25 characters long and include at least one uppercase letter, one lowercase letter, " +
		"one number, and one special character (!@#$%^&*)"
	ErrPhone   = "must be a valid phone number in international format"
	ErrInvalid = "is invalid"
)

var hasSpecialRgx = regexp.MustCompile(`[!@#$%^&*]`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("password", validatePassword)

	return validator
}

func validatePassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()

	if len(password) < 8 || len(password) > 25 {
		return false
	}

	containsUpper, containsLower, containsDigit, containsSpecial := false, false, false, false

	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			containsUpper = true
		case unicode.IsLower(ch):
			containsLower = true
		case unicode.IsDigit(ch):
			containsDigit = true
		case hasSpecialRgx.MatchString(string(ch)):
			containsSpecial = true
		}
	}

	return containsUpper && containsLower && containsDigit && containsSpecial
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "email":
		return ErrEmail
	case "min":
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "gt", "gtfield":
		return fmt.Sprintf(ErrGreaterVal, err.Param())
	case "unique":
		return ErrUnique
	case "oneof":
		return fmt.Sprintf(ErrOneOf, err.Param())
	case "password":
		return ErrPassword
	case "e164":
		return ErrPhone
	default:
		return ErrInvalid
	}
}
