// Package phone normalizes contact numbers to E.164.
package phone

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when the caller does not configure one.
const DefaultRegion = "KE"

// ErrInvalidNumber is returned when the input is not a dialable number for the region.
var ErrInvalidNumber = errors.New("invalid phone number")

// ParseE164 formats a phone number to E.164 and reports numbers that are not
// valid for the region. Empty input yields an empty result and no error.
func ParseE164(input, region string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", nil
	}
	if region == "" {
		region = DefaultRegion
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return "", ErrInvalidNumber
	}

	if !phonenumbers.IsValidNumber(number) {
		return "", ErrInvalidNumber
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}
