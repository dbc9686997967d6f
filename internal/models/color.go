package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Color is an sRGB background color resolved from a table cell.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// White is the default cell background when no style resolves.
var White = Color{R: 255, G: 255, B: 255}

var (
	hexColorRe  = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)
	funcColorRe = regexp.MustCompile(`rgba?\(\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
)

// ParseColor accepts "#rrggbb", "#rgb" and "rgb(r, g, b)" notations.
func ParseColor(raw string) (Color, error) {
	raw = strings.TrimSpace(raw)

	if m := funcColorRe.FindStringSubmatch(raw); m != nil {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		return Color{R: float64(r), G: float64(g), B: float64(b)}, nil
	}

	if m := hexColorRe.FindStringSubmatch(raw); m != nil {
		hex := m[1]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		r, _ := strconv.ParseUint(hex[0:2], 16, 8)
		g, _ := strconv.ParseUint(hex[2:4], 16, 8)
		b, _ := strconv.ParseUint(hex[4:6], 16, 8)
		return Color{R: float64(r), G: float64(g), B: float64(b)}, nil
	}

	return Color{}, fmt.Errorf("unrecognized color %q", raw)
}

// MustParseColor panics on malformed input. Intended for configuration
// defaults known at compile time.
func MustParseColor(raw string) Color {
	c, err := ParseColor(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// DistanceTo returns the redmean perceptual distance between two colors.
// Plain Euclidean RGB distance overweights green differences; redmean is the
// usual low-cost correction.
func (c Color) DistanceTo(other Color) float64 {
	rMean := (c.R + other.R) / 2
	dR := c.R - other.R
	dG := c.G - other.G
	dB := c.B - other.B

	return math.Sqrt(
		(2+rMean/256)*dR*dR +
			4*dG*dG +
			(2+(255-rMean)/256)*dB*dB,
	)
}

// Equal reports exact component equality.
func (c Color) Equal(other Color) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}
