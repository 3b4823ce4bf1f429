// SPDX-License-Identifier: Unlicense OR MIT

package walletmaterial

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/etzwallet/walletui/label"
)

// AmountStyle draws a label.Amount as a single line of text.
type AmountStyle struct {
	Amount    *label.Amount
	Font      font.Font
	Color     color.NRGBA
	TextSize  unit.Sp
	Alignment text.Alignment

	theme *material.Theme
}

// AmountLabel styles a for th. Labels with label.PowerPolicy use the
// theme's Power style.
func AmountLabel(th *Theme, a *label.Amount) AmountStyle {
	s := AmountStyle{
		Amount:   a,
		Color:    th.Fg,
		TextSize: th.TextSize,
		theme:    th.Theme,
	}
	if a.Policy == label.PowerPolicy {
		s.Color = th.Power.Color
		s.TextSize = th.Power.TextSize
		s.Font.Weight = th.Power.Weight
	}
	return s
}

// Layout advances the label's animation to gtx.Now and draws its text.
// A redraw is requested while the animation runs.
func (s AmountStyle) Layout(gtx layout.Context) layout.Dimensions {
	s.Amount.Frame(gtx.Now)
	if s.Amount.Animating() {
		gtx.Execute(op.InvalidateCmd{})
	}
	l := material.Label(s.theme, s.TextSize, s.Amount.Text())
	l.Font = s.Font
	l.Color = s.Color
	l.Alignment = s.Alignment
	l.MaxLines = 1
	return l.Layout(gtx)
}
