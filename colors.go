package main

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// parseColor accepts CSS color names and #rgb/#rrggbb hex values.
func parseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.RGBA{}, false
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}, true
}

// hexColor normalizes a color to #rrggbb for terminal styling.
func hexColor(s string) (string, bool) {
	c, ok := parseColor(s)
	if !ok {
		return "", false
	}
	cf, _ := colorful.MakeColor(c)
	return cf.Hex(), true
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	alpha = min(1, max(0, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(float64(c.A) * alpha)}
}
