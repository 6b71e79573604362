package validator

import (
	"errors"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// ErrInvalidPhone is returned for numbers that cannot be dialled internationally.
var ErrInvalidPhone = errors.New("validator: invalid phone number")

// NormalizePhone parses an international number ("+62 812-3456-7890") and
// returns it in E.164 form ("+6281234567890").
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "+") {
		return "", ErrInvalidPhone
	}

	num, err := phonenumbers.Parse(raw, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}
