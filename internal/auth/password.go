package auth

import "unicode/utf8"

// MinPasswordStrength is the lowest strength accepted at sign-up
const MinPasswordStrength = 75

// PasswordStrength scores a password from 0 to 100 in steps of 25:
// one step each for length of at least 8, an uppercase letter, a digit,
// and a character that is neither an ASCII letter nor a digit.
func PasswordStrength(password string) int {
	var upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
		default:
			symbol = true
		}
	}

	strength := 0
	if utf8.RuneCountInString(password) >= 8 {
		strength += 25
	}
	for _, ok := range []bool{upper, digit, symbol} {
		if ok {
			strength += 25
		}
	}
	return strength
}

// StrengthLabel describes a strength score for display
func StrengthLabel(strength int) string {
	switch {
	case strength >= 100:
		return "strong"
	case strength >= MinPasswordStrength:
		return "good"
	case strength >= 50:
		return "fair"
	default:
		return "weak"
	}
}
