// Package validate holds the field-level validation rules as free-standing
// predicates. They are pure: input in, nil or a typed error out.
package validate

import (
	"errors"
	"regexp"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPhone = errors.New("phone must be exactly 10 digits")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPrice = errors.New("price must be between 0 and 10000 exclusive")
)

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

var maxPrice = decimal.NewFromInt(10000)

func Phone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}
	return nil
}

func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func Price(price decimal.Decimal) error {
	if price.LessThanOrEqual(decimal.Zero) || price.GreaterThanOrEqual(maxPrice) {
		return ErrInvalidPrice
	}
	return nil
}
