package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/hottakes/hottakes-api/internal/apperr"
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsObjectID reports whether s is a 24 character hex identifier.
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// ValidateID checks a route :id parameter.
func ValidateID(id string) error {
	if IsObjectID(id) {
		return nil
	}
	return apperr.Validation(apperr.FieldError{
		Location: "params",
		Path:     ":id",
		Message:  "must be a 24 character hex identifier",
	})
}

// PasswordPolicy sets the minimum composition of a strong password.
type PasswordPolicy struct {
	MinLength  int
	MinLower   int
	MinUpper   int
	MinDigits  int
	MinSymbols int
}

// DefaultPasswordPolicy requires 8 characters with at least one of each class.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLength: 8, MinLower: 1, MinUpper: 1, MinDigits: 1, MinSymbols: 1}
}

// Check reports whether password satisfies the policy.
func (p PasswordPolicy) Check(password string) bool {
	if utf8.RuneCountInString(password) < p.MinLength {
		return false
	}
	var lower, upper, digits, symbols int
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower++
		case unicode.IsUpper(r):
			upper++
		case unicode.IsDigit(r):
			digits++
		case unicode.IsPunct(r), unicode.IsSymbol(r), r == ' ':
			symbols++
		}
	}
	return lower >= p.MinLower && upper >= p.MinUpper && digits >= p.MinDigits && symbols >= p.MinSymbols
}

func (p PasswordPolicy) describe() string {
	return fmt.Sprintf("must be at least %d characters with at least %d lowercase, %d uppercase, %d digit and %d symbol characters",
		p.MinLength, p.MinLower, p.MinUpper, p.MinDigits, p.MinSymbols)
}

func (p PasswordPolicy) validatorFunc() validator.Func {
	return func(fl validator.FieldLevel) bool {
		return p.Check(fl.Field().String())
	}
}

func objectIDFunc(fl validator.FieldLevel) bool {
	return IsObjectID(fl.Field().String())
}

// maxBytesFunc bounds the encoded length of a string, unlike max which
// counts runes.
func maxBytesFunc(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}
