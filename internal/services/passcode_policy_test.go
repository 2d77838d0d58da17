package services

import (
	"errors"
	"testing"
)

func TestValidatePasscodeStrength_RejectsWeakPasscodes(t *testing.T) {
	testCases := []string{
		"Short1",
		"onlyletters",
		"1234567890",
		"",
	}

	for _, passcode := range testCases {
		if err := ValidatePasscodeStrength(passcode); !errors.Is(err, ErrWeakPasscode) {
			t.Fatalf("expected ErrWeakPasscode for %q, got %v", passcode, err)
		}
	}
}

func TestValidatePasscodeStrength_AcceptsLettersAndDigits(t *testing.T) {
	for _, passcode := range []string{"kickoff99", "ゴール2026です"} {
		if err := ValidatePasscodeStrength(passcode); err != nil {
			t.Fatalf("expected nil error for %q, got %v", passcode, err)
		}
	}
}
