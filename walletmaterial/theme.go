// SPDX-License-Identifier: Unlicense OR MIT

// Package walletmaterial draws the wallet's widgets in the Material
// style of gioui.org/widget/material.
package walletmaterial

import (
	"image/color"

	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget/material"
	"golang.org/x/image/colornames"
)

// Theme extends material.Theme with the wallet's colors.
type Theme struct {
	*material.Theme
	// Power styles the large balance labels.
	Power struct {
		Color    color.NRGBA
		TextSize unit.Sp
		Weight   font.Weight
	}
	// Header is the background behind power labels.
	Header color.NRGBA
	// Hint colors secondary text such as the balance line.
	Hint color.NRGBA
	// Negative colors warnings such as an overdraft.
	Negative color.NRGBA
}

// NewTheme returns a theme using the Go fonts.
func NewTheme() *Theme {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	t := &Theme{Theme: th}
	t.Power.Color = nrgb(colornames.White)
	t.Power.TextSize = 28
	t.Power.Weight = font.Bold
	t.Header = nrgb(colornames.Darkslateblue)
	t.Hint = nrgb(colornames.Gray)
	t.Negative = nrgb(colornames.Crimson)
	return t
}

// nrgb converts an opaque color.
func nrgb(c color.RGBA) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}
