// SPDX-License-Identifier: Unlicense OR MIT

// Package send implements the model behind the wallet's send screen:
// validating the entered payment, applying payment requests and handing
// the transaction to a Sender.
package send

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/etzwallet/walletui/validate"
	"github.com/shopspring/decimal"
)

// MaxMemoLength is the maximum memo length in bytes.
const MaxMemoLength = 250

var (
	ErrNoAddress   = errors.New("send: no address")
	ErrNoAmount    = errors.New("send: no amount")
	ErrInvalidData = errors.New("send: data must contain only letters and digits")
	ErrMemoTooLong = errors.New("send: memo too long")
)

// Currency describes the asset being sent.
type Currency struct {
	Code string
	Name string
}

// HasDataField reports whether transactions of the currency carry a
// user-supplied data field.
func (c Currency) HasDataField() bool {
	return c.Code == "ETZ"
}

// DisplayCode returns the code shown to the user.
func (c Currency) DisplayCode() string {
	if c.Code == "ETH" {
		return "ETZ"
	}
	return c.Code
}

// Title returns the title of the send screen.
func (c Currency) Title() string {
	return "Send " + c.DisplayCode()
}

// Form holds the user's input on the send screen.
type Form struct {
	Address string
	Amount  decimal.NullDecimal
	Data    string
	Memo    string
}

// Draft is a validated Form.
type Draft struct {
	Address string
	Amount  decimal.Decimal
	// Data is lower case and 0x prefixed.
	Data string
	Memo string
}

// Validate checks the form and returns the normalized draft.
func (f Form) Validate() (Draft, error) {
	addr := strings.TrimSpace(f.Address)
	if addr == "" {
		return Draft{}, ErrNoAddress
	}
	if !f.Amount.Valid {
		return Draft{}, ErrNoAmount
	}
	if f.Data != "" && !validate.HexData(f.Data) {
		return Draft{}, fmt.Errorf("%w: %q", ErrInvalidData, f.Data)
	}
	if len(f.Memo) > MaxMemoLength {
		return Draft{}, fmt.Errorf("%w: %d bytes, at most %d", ErrMemoTooLong, len(f.Memo), MaxMemoLength)
	}
	return Draft{
		Address: addr,
		Amount:  f.Amount.Decimal,
		Data:    NormalizeData(f.Data),
		Memo:    f.Memo,
	}, nil
}

// NormalizeData lower cases a data field and adds the 0x prefix if it is
// missing. The empty string becomes "0x".
func NormalizeData(s string) string {
	s = strings.ToLower(s)
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}

// TruncateMemo cuts s to at most MaxMemoLength bytes without splitting a
// UTF-8 sequence.
func TruncateMemo(s string) string {
	if len(s) <= MaxMemoLength {
		return s
	}
	s = s[:MaxMemoLength]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
