// SPDX-License-Identifier: Unlicense OR MIT

// Package numfmt formats and parses decimal amounts according to a locale
// and, optionally, a currency.
package numfmt

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrSyntax is returned by Parse for text that the formatter could not
// have produced.
var ErrSyntax = errors.New("numfmt: invalid number syntax")

// Digits controls how many digits a formatter emits.
type Digits struct {
	// MinInteger is the minimum number of integer digits. Zero omits the
	// leading zero of values between -1 and 1.
	MinInteger int
	// MinFraction is the minimum number of fraction digits.
	MinFraction int
	// MaxFraction is the number of fraction digits values are rounded to.
	MaxFraction int
}

// Formatter converts decimals to text and back.
type Formatter interface {
	Format(v decimal.Decimal) string
	// Parse is the inverse of Format for text produced with the
	// current Digits.
	Parse(s string) (decimal.Decimal, error)
	Digits() Digits
	SetDigits(d Digits)
}

// Style selects plain or currency formatting.
type Style uint8

const (
	DecimalStyle Style = iota
	// CurrencyStyle always places the currency symbol before the
	// number, after any sign, regardless of the locale's own pattern:
	// "-€5,00" for de/EUR.
	CurrencyStyle
)

// NumberFormatter is a Formatter using the number symbols of a locale.
// Values are rounded half to even.
type NumberFormatter struct {
	Style Style
	// Locale selects the decimal and group separators and digits.
	Locale language.Tag
	// Currency is the unit whose symbol prefixes values in CurrencyStyle.
	Currency currency.Unit
	// Grouping enables integer digit grouping.
	Grouping bool

	digits Digits

	sym    *symbols
	symTag language.Tag
	symCur currency.Unit
}

type symbols struct {
	decimal  string
	group    string
	zero     rune
	currency string
}

var _ Formatter = (*NumberFormatter)(nil)

// NewDecimal returns a grouping formatter without a currency symbol.
func NewDecimal(tag language.Tag, d Digits) *NumberFormatter {
	return &NumberFormatter{
		Style:    DecimalStyle,
		Locale:   tag,
		Grouping: true,
		digits:   d,
	}
}

// NewCurrency returns a formatter for the ISO 4217 currency code. The
// digits default to the currency's standard scale.
func NewCurrency(tag language.Tag, code string) (*NumberFormatter, error) {
	u, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("numfmt: currency %q: %w", code, err)
	}
	scale, _ := currency.Standard.Rounding(u)
	return &NumberFormatter{
		Style:    CurrencyStyle,
		Locale:   tag,
		Currency: u,
		Grouping: true,
		digits:   Digits{MinInteger: 1, MinFraction: scale, MaxFraction: scale},
	}, nil
}

// Default returns an en-US formatter with two fraction digits.
func Default() *NumberFormatter {
	return NewDecimal(language.AmericanEnglish, Digits{MinInteger: 1, MinFraction: 2, MaxFraction: 2})
}

func (f *NumberFormatter) Digits() Digits {
	return f.digits
}

func (f *NumberFormatter) SetDigits(d Digits) {
	f.digits = d
}

// Clone returns an independent copy of f.
func (f *NumberFormatter) Clone() *NumberFormatter {
	c := *f
	return &c
}

func (f *NumberFormatter) Format(v decimal.Decimal) string {
	d := f.digits.normalize()
	r := v.RoundBank(int32(d.MaxFraction))
	ip, fp, _ := strings.Cut(r.Abs().StringFixed(int32(d.MaxFraction)), ".")
	fp = strings.TrimRight(fp, "0")
	for len(fp) < d.MinFraction {
		fp += "0"
	}
	if ip == "0" && d.MinInteger == 0 {
		ip = ""
	}
	for len(ip) < d.MinInteger {
		ip = "0" + ip
	}
	if ip == "" && fp == "" {
		ip = "0"
	}

	sym := f.symbols()
	var b strings.Builder
	if r.IsNegative() {
		b.WriteByte('-')
	}
	if f.Style == CurrencyStyle {
		b.WriteString(sym.currency)
	}
	if f.Grouping {
		ip = group(ip, sym.group)
	}
	b.WriteString(sym.localize(ip))
	if fp != "" {
		b.WriteString(sym.decimal)
		b.WriteString(sym.localize(fp))
	}
	return b.String()
}

func (f *NumberFormatter) Parse(s string) (decimal.Decimal, error) {
	sym := f.symbols()
	in := strings.TrimSpace(s)
	var b strings.Builder
	if rest, ok := cutSign(in); ok {
		b.WriteByte('-')
		in = rest
	}
	if f.Style == CurrencyStyle {
		rest, ok := strings.CutPrefix(in, sym.currency)
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %q lacks currency symbol %q", ErrSyntax, s, sym.currency)
		}
		in = strings.TrimSpace(rest)
	}
	digits, fraction := false, false
	for i := 0; i < len(in); {
		rest := in[i:]
		switch {
		case strings.HasPrefix(rest, sym.decimal):
			if fraction {
				return decimal.Zero, fmt.Errorf("%w: %q has more than one decimal separator", ErrSyntax, s)
			}
			if !digits {
				b.WriteByte('0')
			}
			fraction = true
			b.WriteByte('.')
			i += len(sym.decimal)
		case f.Grouping && sym.group != "" && digits && !fraction && strings.HasPrefix(rest, sym.group):
			i += len(sym.group)
		default:
			r, n := utf8.DecodeRuneInString(rest)
			c, ok := sym.delocalize(r)
			if !ok {
				return decimal.Zero, fmt.Errorf("%w: unexpected %q in %q", ErrSyntax, r, s)
			}
			b.WriteByte(c)
			digits = true
			i += n
		}
	}
	if !digits {
		return decimal.Zero, fmt.Errorf("%w: no digits in %q", ErrSyntax, s)
	}
	return decimal.NewFromString(b.String())
}

func (f *NumberFormatter) symbols() symbols {
	if f.sym == nil || f.symTag != f.Locale || f.symCur != f.Currency {
		s := probe(f.Locale, f.Currency)
		f.sym, f.symTag, f.symCur = &s, f.Locale, f.Currency
	}
	return *f.sym
}

// probe derives the locale's number symbols from a formatted sample.
func probe(tag language.Tag, cur currency.Unit) symbols {
	p := message.NewPrinter(tag)
	sample := p.Sprint(number.Decimal(1234567.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	sym := symbols{decimal: ".", group: ",", zero: '0'}
	var seps []string
	var sep []rune
	first := true
	for _, r := range sample {
		if !unicode.IsDigit(r) {
			sep = append(sep, r)
			continue
		}
		if first {
			// The sample starts with the digit one.
			sym.zero = r - 1
			first = false
			sep = sep[:0]
			continue
		}
		if len(sep) > 0 {
			seps = append(seps, string(sep))
			sep = sep[:0]
		}
	}
	switch {
	case len(seps) >= 2:
		sym.group = seps[0]
		sym.decimal = seps[len(seps)-1]
	case len(seps) == 1:
		sym.group = ""
		sym.decimal = seps[0]
	}
	if cur != (currency.Unit{}) {
		sym.currency = p.Sprint(currency.NarrowSymbol(cur))
	}
	return sym
}

// localize replaces ASCII digits with the locale's digits. Other runes,
// such as separators, are kept.
func (s symbols) localize(ascii string) string {
	if s.zero == '0' {
		return ascii
	}
	var b strings.Builder
	for _, r := range ascii {
		if r >= '0' && r <= '9' {
			r = s.zero + (r - '0')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s symbols) delocalize(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r), true
	case r >= s.zero && r <= s.zero+9:
		return byte('0' + r - s.zero), true
	}
	return 0, false
}

// group inserts sep between every three integer digits.
func group(digits, sep string) string {
	if sep == "" || len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func cutSign(s string) (string, bool) {
	for _, minus := range []string{"-", "−"} {
		if rest, ok := strings.CutPrefix(s, minus); ok {
			return rest, true
		}
	}
	return s, false
}

func (d Digits) normalize() Digits {
	if d.MinInteger < 0 {
		d.MinInteger = 0
	}
	if d.MinFraction < 0 {
		d.MinFraction = 0
	}
	if d.MaxFraction < d.MinFraction {
		d.MaxFraction = d.MinFraction
	}
	return d
}
