// SPDX-License-Identifier: Unlicense OR MIT

/*
Package anim implements eased transitions between decimal values.

An Animation never reads the clock. The host reports elapsed time through
Advance, usually from a Driver that is fed by the display refresh loop.
This keeps the interpolation independent of any particular window system:

	var a anim.Animation
	a.Start(from, to, func() { log.Print("done") })
	for a.Running() {
		a.Advance(16*time.Millisecond, render)
	}
*/
package anim

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/constraints"
)

const (
	// DefaultDuration is the length of an animation with a zero Duration.
	DefaultDuration = 600 * time.Millisecond
	// DefaultExponent is the easing exponent of an animation with a zero
	// Exponent.
	DefaultExponent = 3.0
)

// State is the lifecycle state of an Animation.
type State uint8

const (
	Idle State = iota
	Running
)

// Animation interpolates between two decimal values over a fixed
// duration with an ease-out curve.
type Animation struct {
	// Duration is the total length of the transition.
	Duration time.Duration
	// Exponent controls the steepness of the ease-out curve.
	Exponent float64

	state   State
	from    decimal.Decimal
	to      decimal.Decimal
	value   decimal.Decimal
	elapsed time.Duration
	done    func()
}

// Start begins a transition from from to to. A transition already in
// progress is replaced and its completion function is discarded
// without being called. done may be nil.
func (a *Animation) Start(from, to decimal.Decimal, done func()) {
	if a.Cancel() {
		log.Tracef("Transition to %s superseded by %s", a.to, to)
	}
	a.state = Running
	a.from = from
	a.to = to
	a.value = from
	a.elapsed = 0
	a.done = done
}

// Cancel stops a running transition without calling its completion
// function. It reports whether a transition was running.
func (a *Animation) Cancel() bool {
	running := a.state == Running
	a.state = Idle
	a.done = nil
	return running
}

// Advance moves the transition forward by dt and passes the new value to
// render. When the accumulated time reaches Duration the animation
// becomes Idle, render receives exactly the end value and the completion
// function is then called once. Advance is a no-op while Idle.
func (a *Animation) Advance(dt time.Duration, render func(v decimal.Decimal)) {
	if a.state != Running {
		return
	}
	if dt > 0 {
		a.elapsed += dt
	}
	d := a.duration()
	if a.elapsed >= d {
		done := a.done
		a.state = Idle
		a.done = nil
		a.value = a.to
		render(a.to)
		log.Tracef("Transition to %s finished after %v", a.to, a.elapsed)
		if done != nil {
			done()
		}
		return
	}
	t := float64(a.elapsed) / float64(d)
	eased := decimal.NewFromFloat(EaseOut(t, a.exponent()))
	a.value = a.from.Add(a.to.Sub(a.from).Mul(eased))
	render(a.value)
}

// Running reports whether a transition is in progress.
func (a *Animation) Running() bool {
	return a.state == Running
}

// State returns the lifecycle state.
func (a *Animation) State() State {
	return a.state
}

// Value returns the most recently interpolated value.
func (a *Animation) Value() decimal.Decimal {
	return a.value
}

// Elapsed returns the time accumulated by the current transition.
func (a *Animation) Elapsed() time.Duration {
	return a.elapsed
}

// Target returns the end value of the current or last transition.
func (a *Animation) Target() decimal.Decimal {
	return a.to
}

func (a *Animation) duration() time.Duration {
	if a.Duration <= 0 {
		return DefaultDuration
	}
	return a.Duration
}

func (a *Animation) exponent() float64 {
	if a.Exponent <= 0 {
		return DefaultExponent
	}
	return a.Exponent
}

// EaseOut maps linear progress t in [0, 1] to 1-(1-t)^exponent. Values
// outside the range are clamped.
func EaseOut(t, exponent float64) float64 {
	t = clamp(t, 0, 1)
	return clamp(1-math.Pow(1-t, exponent), 0, 1)
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	default:
		panic("invalid State")
	}
}
