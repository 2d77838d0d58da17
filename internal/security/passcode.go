package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	passcodeLetters = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
	passcodeDigits  = "23456789"

	// MinTemporaryPasscodeLength leaves room for one letter and one digit.
	MinTemporaryPasscodeLength = 2
)

var errShortPasscode = errors.New("temporary passcode too short")

// TemporaryPasscode returns a random passcode of the given length that always
// mixes letters and digits. Ambiguous glyphs (0, O, 1, l, I) are left out so
// the value can be read off a terminal.
func TemporaryPasscode(length int) (string, error) {
	if length < MinTemporaryPasscodeLength {
		return "", errShortPasscode
	}

	value := make([]byte, length)
	for index := range value {
		char, err := pick(passcodeLetters + passcodeDigits)
		if err != nil {
			return "", err
		}
		value[index] = char
	}

	letterAt, digitAt, err := twoPositions(length)
	if err != nil {
		return "", err
	}
	if value[letterAt], err = pick(passcodeLetters); err != nil {
		return "", err
	}
	if value[digitAt], err = pick(passcodeDigits); err != nil {
		return "", err
	}
	return string(value), nil
}

func pick(alphabet string) (byte, error) {
	position, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
	if err != nil {
		return 0, err
	}
	return alphabet[position.Int64()], nil
}

func twoPositions(length int) (int, int, error) {
	first, err := rand.Int(rand.Reader, big.NewInt(int64(length)))
	if err != nil {
		return 0, 0, err
	}
	offset, err := rand.Int(rand.Reader, big.NewInt(int64(length-1)))
	if err != nil {
		return 0, 0, err
	}
	a := int(first.Int64())
	b := (a + 1 + int(offset.Int64())) % length
	return a, b, nil
}
