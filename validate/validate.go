// SPDX-License-Identifier: Unlicense OR MIT

// Package validate checks user input against the wallet's text formats.
// All patterns are case-insensitive and match the whole input.
package validate

import "regexp"

var (
	emailRE     = regexp.MustCompile(`(?i)^([a-z0-9_.-]+)@([\da-z.-]+)\.([a-z.]{2,6})$`)
	passwordRE  = regexp.MustCompile(`(?i)^[-A-Za-z0-9@._#$%]{7,20}$`)
	accountRE   = regexp.MustCompile(`(?i)^[-A-Za-z0-9_]{6,20}$`)
	telephoneRE = regexp.MustCompile(`(?i)^[0-9]*$`)
	idCardRE    = regexp.MustCompile(`(?i)^[-A-Za-z0-9]*$`)
	englishRE   = regexp.MustCompile(`(?i)^[-A-Za-z]*$`)
	chineseRE   = regexp.MustCompile(`(?i)^[\x{4e00}-\x{9fa5}]*$`)
	hexDataRE   = regexp.MustCompile(`(?i)^[a-z0-9]*$`)
)

// Email reports whether s looks like an email address. It does not check
// that the address exists.
func Email(s string) bool {
	return emailRE.MatchString(s)
}

// Password reports whether s is 7 to 20 letters, digits or any of
// -@._#$%.
func Password(s string) bool {
	return passwordRE.MatchString(s)
}

// Account reports whether s is 6 to 20 letters, digits, dashes or
// underscores.
func Account(s string) bool {
	return accountRE.MatchString(s)
}

// Telephone reports whether s contains only digits.
func Telephone(s string) bool {
	return telephoneRE.MatchString(s)
}

// IDCard reports whether s contains only letters, digits and dashes.
// Card formats differ between countries.
func IDCard(s string) bool {
	return idCardRE.MatchString(s)
}

// English reports whether s contains only letters and dashes.
func English(s string) bool {
	return englishRE.MatchString(s)
}

// Chinese reports whether s contains only CJK unified ideographs.
func Chinese(s string) bool {
	return chineseRE.MatchString(s)
}

// HexData reports whether s contains only letters and digits, the
// characters allowed in a transaction's data field.
func HexData(s string) bool {
	return hexDataRE.MatchString(s)
}
