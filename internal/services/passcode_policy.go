package services

import (
	"errors"
	"unicode"
)

var ErrWeakPasscode = errors.New("weak passcode")

const minPasscodeLength = 8

func ValidatePasscodeStrength(passcode string) error {
	if len([]rune(passcode)) < minPasscodeLength {
		return ErrWeakPasscode
	}

	hasLetter := false
	hasDigit := false
	for _, char := range passcode {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if hasLetter && hasDigit {
		return nil
	}
	return ErrWeakPasscode
}
