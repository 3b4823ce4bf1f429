// SPDX-License-Identifier: Unlicense OR MIT

// Package label implements the state of text labels displaying animated
// amounts.
package label

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etzwallet/walletui/anim"
	"github.com/etzwallet/walletui/numfmt"
	"github.com/shopspring/decimal"
)

// ErrUnparseable is returned by SetValueAnimated when the displayed text
// can't be parsed back into a starting value. No animation is started in
// that case.
var ErrUnparseable = errors.New("label: displayed text is not a number")

// MaxUnit is the unit that makes PowerPolicy display an amount with the
// formatter's own digit rules.
const MaxUnit = "Max"

// Policy selects how an Amount is rendered as text.
type Policy uint8

const (
	// SuffixedPolicy renders the formatted amount followed by a space
	// and the unit.
	SuffixedPolicy Policy = iota
	// PowerPolicy renders at least one integer and two fraction digits,
	// unless the unit is MaxUnit. The unit is not appended.
	PowerPolicy
)

// Amount displays a decimal amount and animates changes to it.
// Amount is not safe for concurrent use; all methods must run on the UI
// goroutine.
type Amount struct {
	Policy Policy
	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time
	// Driver schedules animation ticks. Nil means the built-in frame
	// driver advanced by Frame.
	Driver anim.Driver
	// Duration is the length of animations. Zero means
	// anim.DefaultDuration.
	Duration time.Duration

	formatter numfmt.Formatter
	value     decimal.Decimal
	unit      string
	text      string
	resized   bool

	anim     anim.Animation
	frames   anim.FrameDriver
	lastTick time.Time
}

// New returns an Amount displaying zero with the formatter's rules. A nil
// formatter is replaced by numfmt.Default.
func New(p Policy, f numfmt.Formatter, unit string) *Amount {
	if f == nil {
		f = numfmt.Default()
	}
	a := &Amount{
		Policy:    p,
		formatter: f,
		unit:      unit,
	}
	a.setText(f.Format(decimal.Zero))
	return a
}

// Formatter returns the active formatter.
func (a *Amount) Formatter() numfmt.Formatter {
	return a.formatter
}

// SetFormatter replaces the formatter and re-renders the current value.
// A running animation continues from its current numeric state.
func (a *Amount) SetFormatter(f numfmt.Formatter) {
	a.formatter = f
	a.render(a.value)
}

// Value returns the displayed amount.
func (a *Amount) Value() decimal.Decimal {
	return a.value
}

// Target returns the amount the label settles on: the end of a running
// animation, or the displayed amount.
func (a *Amount) Target() decimal.Decimal {
	if a.anim.Running() {
		return a.anim.Target()
	}
	return a.value
}

// Unit returns the unit of the displayed amount.
func (a *Amount) Unit() string {
	return a.unit
}

// Text returns the displayed text.
func (a *Amount) Text() string {
	return a.text
}

// SetText displays arbitrary text, such as a placeholder. The amount is
// not changed.
func (a *Amount) SetText(s string) {
	a.setText(s)
}

// Animating reports whether an animation is in progress.
func (a *Amount) Animating() bool {
	return a.anim.Running()
}

// Resized reports whether the text changed since the last call to
// Resized, meaning the label's intrinsic size may differ.
func (a *Amount) Resized() bool {
	r := a.resized
	a.resized = false
	return r
}

// SetValue displays v immediately, cancelling any animation without
// calling its completion function.
func (a *Amount) SetValue(v decimal.Decimal, unit string) {
	a.stop()
	a.unit = unit
	a.render(v)
}

// SetValueAnimated animates the displayed amount from the value shown
// now to end. done is called once when the animation completes, and
// never if it is superseded by another call to SetValue or
// SetValueAnimated. If the displayed text can't be parsed by the
// formatter nothing changes and an error wrapping ErrUnparseable is
// returned.
func (a *Amount) SetValueAnimated(end decimal.Decimal, unit string, done func()) error {
	start, err := a.parseText()
	if err != nil {
		log.Debugf("Not animating %q to %s: %v", a.text, end, err)
		return fmt.Errorf("%w: %v", ErrUnparseable, err)
	}
	a.stop()
	a.unit = unit
	a.anim.Duration = a.Duration
	a.anim.Start(start, end, done)
	a.lastTick = a.now()
	a.driver().Start(a.tick)
	return nil
}

// Frame reports a display refresh to the built-in frame driver. It has
// no effect when Driver is set.
func (a *Amount) Frame(now time.Time) {
	if a.Driver == nil {
		a.frames.Frame(now)
	}
}

func (a *Amount) tick(now time.Time) {
	dt := now.Sub(a.lastTick)
	a.lastTick = now
	a.anim.Advance(dt, a.render)
	// The completion function may have started a new animation.
	if !a.anim.Running() {
		a.driver().Stop()
	}
}

func (a *Amount) stop() {
	a.anim.Cancel()
	a.driver().Stop()
}

func (a *Amount) parseText() (decimal.Decimal, error) {
	txt := a.text
	if a.Policy == SuffixedPolicy && a.unit != "" {
		txt = strings.TrimSuffix(txt, " "+a.unit)
	}
	return a.formatter.Parse(txt)
}

func (a *Amount) render(v decimal.Decimal) {
	a.value = v
	a.setText(a.Policy.format(a.formatter, v, a.unit))
}

func (a *Amount) setText(s string) {
	a.text = s
	a.resized = true
}

func (a *Amount) driver() anim.Driver {
	if a.Driver != nil {
		return a.Driver
	}
	return &a.frames
}

func (a *Amount) now() time.Time {
	if a.Clock != nil {
		return a.Clock()
	}
	return time.Now()
}

func (p Policy) format(f numfmt.Formatter, v decimal.Decimal, unit string) string {
	switch p {
	case PowerPolicy:
		if unit == MaxUnit {
			return f.Format(v)
		}
		d := f.Digits()
		forced := d
		forced.MinFraction = 2
		forced.MinInteger = 1
		f.SetDigits(forced)
		s := f.Format(v)
		f.SetDigits(d)
		return s
	default:
		return f.Format(v) + " " + unit
	}
}

func (p Policy) String() string {
	switch p {
	case SuffixedPolicy:
		return "SuffixedPolicy"
	case PowerPolicy:
		return "PowerPolicy"
	default:
		panic("invalid Policy")
	}
}
