package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
)

func DereferencePtr[T any](ptr *T, defaultValue ...T) T {
	if ptr != nil {
		return *ptr
	}
	var zero T
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return zero
}

func Ptr[T any](v T) *T { return &v }

// ConvertToDecimal parses a decimal from its string form, rejecting empty input.
func ConvertToDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("empty decimal string")
	}
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return dec, nil
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}
	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}
	return nil
}

// ConvertToDate truncates t to midnight in the given timezone (UTC on
// bad/empty timezone). Ledger entry dates are day-granular.
func ConvertToDate(t time.Time, timezone string) (time.Time, error) {
	loc := time.UTC
	if timezone != "" {
		l, err := time.LoadLocation(timezone)
		if err != nil {
			return time.Time{}, err
		}
		loc = l
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc), nil
}
