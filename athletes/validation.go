package athletes

import (
	"strings"

	"github.com/jrsteele09/gym-checkin/internal/errors"
	"github.com/jrsteele09/gym-checkin/internal/utils"
)

const (
	PhoneLength = 10
	PhonePrefix = "07"
	PINLength   = 6
)

// Validation messages shown to the user.
const (
	MsgPhoneRequired     = "Please enter your phone number."
	MsgPhoneLength       = "The phone number must have exactly 10 digits (format: 07XXXXXXXX)."
	MsgPhonePrefix       = "The phone number must start with 07."
	MsgPINFormat         = "The PIN must have exactly 6 digits."
	MsgNameRequired      = "Please enter your full name."
	MsgNameIncomplete    = "Please enter both first and last name."
	MsgNameNotConfirmed  = "Confirm that the first and last name are complete and cannot be changed later."
	MsgAthleteNameNeeded = "The athlete name is required."
)

// NormalizePhone strips everything but digits and caps the result at the
// phone length, the way the kiosk input field does.
func NormalizePhone(in string) string {
	return utils.DigitsOnly(in, PhoneLength)
}

// ValidatePhone accepts exactly 10 digits starting with "07". Length and
// prefix problems get distinct messages.
func ValidatePhone(phone string) error {
	if strings.TrimSpace(phone) == "" {
		return errors.Invalid("phone_number", MsgPhoneRequired)
	}
	if len(phone) != PhoneLength || !allDigits(phone) {
		return errors.Invalid("phone_number", MsgPhoneLength)
	}
	if !strings.HasPrefix(phone, PhonePrefix) {
		return errors.Invalid("phone_number", MsgPhonePrefix)
	}
	return nil
}

// ValidateOptionalPhone is ValidatePhone for fields that may be left blank.
func ValidateOptionalPhone(phone string) error {
	if phone == "" {
		return nil
	}
	return ValidatePhone(phone)
}

func ValidatePIN(pin string) error {
	if len(pin) != PINLength || !allDigits(pin) {
		return errors.Invalid("pin", MsgPINFormat)
	}
	return nil
}

// ValidateFullName requires at least a first and a last name and returns the
// name with surrounding and repeated inner spaces removed.
func ValidateFullName(name string) (string, error) {
	fields := strings.Fields(name)
	switch len(fields) {
	case 0:
		return "", errors.Invalid("name", MsgNameRequired)
	case 1:
		return "", errors.Invalid("name", MsgNameIncomplete)
	}
	return strings.Join(fields, " "), nil
}

// ValidateName is the manager-side check: any non-blank name.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.Invalid("name", MsgAthleteNameNeeded)
	}
	return name, nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
