// SPDX-License-Identifier: Unlicense OR MIT

package anim

import "time"

// DefaultInterval is the number of display frames between ticks of a
// FrameDriver with a zero Interval.
const DefaultInterval = 2

// Driver schedules a repeating tick on the host's display refresh.
// All methods and ticks run on the UI goroutine.
type Driver interface {
	// Start registers tick, replacing any previous registration.
	Start(tick func(now time.Time))
	// Stop removes the registration. A tick must not run after Stop
	// returns.
	Stop()
}

// FrameDriver is a Driver fed by the host calling Frame once per
// display refresh. It runs its tick every Interval frames.
type FrameDriver struct {
	Interval int

	tick   func(now time.Time)
	frames int
}

var _ Driver = (*FrameDriver)(nil)

// Start registers tick and restarts the frame count.
func (d *FrameDriver) Start(tick func(now time.Time)) {
	d.tick = tick
	d.frames = 0
}

// Stop drops the registered tick.
func (d *FrameDriver) Stop() {
	d.tick = nil
	d.frames = 0
}

// Active reports whether a tick is registered.
func (d *FrameDriver) Active() bool {
	return d.tick != nil
}

// Frame reports a display refresh at now.
func (d *FrameDriver) Frame(now time.Time) {
	if d.tick == nil {
		return
	}
	d.frames++
	if d.frames < d.interval() {
		return
	}
	d.frames = 0
	d.tick(now)
}

func (d *FrameDriver) interval() int {
	if d.Interval <= 0 {
		return DefaultInterval
	}
	return d.Interval
}
