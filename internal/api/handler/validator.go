package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\d{10,15}$`)

// passwordSymbols is the fixed set of accepted special characters.
const passwordSymbols = "!@#$%^&*"

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to
// echo.Echo.Validator. It registers the custom "password" and "phone" rules
// used by the registration and password-change schemas.
func NewValidator() *echoValidator {
	v := validator.New()
	_ = v.RegisterValidation("password", validPassword)
	_ = v.RegisterValidation("phone", validPhone)
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// validPassword enforces the complexity policy: at least 8 characters with
// one uppercase, one lowercase, one digit, and one symbol from the fixed set.
func validPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			// outside the accepted alphabet
			return false
		}
	}
	return upper && lower && digit && symbol
}

// validPhone accepts 10 to 15 digits, nothing else.
func validPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "password":
		return field + " must have at least 8 characters, including uppercase, lowercase, number, and special character (" + passwordSymbols + ")"
	case "phone":
		return field + " must be between 10 to 15 digits and contain only numbers"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
