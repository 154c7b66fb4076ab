package password

import (
	"errors"
	"strings"
	"unicode"
)

// Policy violations. Messages are user-facing and returned verbatim in
// signup responses.
var (
	ErrTooShort         = errors.New("password must be at least 8 characters")
	ErrMissingLowercase = errors.New("password must contain lowercase letters")
	ErrMissingUppercase = errors.New("password must contain uppercase letters")
	ErrMissingDigit     = errors.New("password must contain numbers")
	ErrMissingSymbol    = errors.New("password must contain special characters")
)

// allowedSymbols is the fixed set of accepted special characters.
const allowedSymbols = "!@#$%^&*"

const minLength = 8

// Validate checks a candidate password against the strength policy and
// returns every violation found. An empty slice means the password is
// acceptable. Pure, no side effects.
func Validate(password string) []error {
	var violations []error

	if len(password) < minLength {
		violations = append(violations, ErrTooShort)
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(allowedSymbols, r):
			hasSymbol = true
		}
	}

	if !hasLower {
		violations = append(violations, ErrMissingLowercase)
	}
	if !hasUpper {
		violations = append(violations, ErrMissingUppercase)
	}
	if !hasDigit {
		violations = append(violations, ErrMissingDigit)
	}
	if !hasSymbol {
		violations = append(violations, ErrMissingSymbol)
	}

	return violations
}
