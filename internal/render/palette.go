// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package render

import (
	"fmt"
	"image/color"
	"math"
)

// inferno is the sequential scale used for prody colouring.
var inferno = mustHexes(
	"#000004", "#1b0c41", "#4a0c6b", "#781c6d", "#a52c60",
	"#cf4446", "#ed6925", "#fb9b06", "#f7d13d", "#fcffa4",
)

// qualitative colours assigned to categories in order of appearance.
var qualitative = mustHexes(
	"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a",
	"#19d3f3", "#ff6692", "#b6e880", "#ff97ff", "#fecb52",
)

var missingColor = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

func mustHexes(hexes ...string) []color.RGBA {
	out := make([]color.RGBA, len(hexes))
	for i, h := range hexes {
		c, err := parseHex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

func parseHex(s string) (color.RGBA, error) {
	var c color.RGBA
	c.A = 0xff
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return c, nil
}

// interpolate samples a piecewise linear scale at t in [0, 1].
func interpolate(scale []color.RGBA, t float64) color.RGBA {
	if math.IsNaN(t) {
		return missingColor
	}
	t = clamp01(t)
	pos := t * float64(len(scale)-1)
	i := int(math.Floor(pos))
	if i >= len(scale)-1 {
		return scale[len(scale)-1]
	}
	frac := pos - float64(i)
	a, b := scale[i], scale[i+1]
	lerp := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*frac)) }
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 0xff}
}

// contrastText picks black or white text for legibility on bg.
func contrastText(bg color.Color) color.Color {
	r, g, b, a := bg.RGBA()
	if a == 0 {
		return color.Black
	}
	// Relative luminance on 16-bit channels.
	lum := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	if lum > 0.5*0xffff {
		return color.Black
	}
	return color.White
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
