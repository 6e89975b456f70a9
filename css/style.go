package css

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
)

// DefaultFontSize is the size in points for text without font-size and the
// reference for relative units.
const DefaultFontSize = 12.0

// Align is horizontal alignment of lines within content width.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Style is effective style of an element. Missing or malformed values fall
// back to defaults in accessors.
type Style Properties

func (s Style) value(name string) string {
	return strings.ToLower(strings.TrimSpace(s[name]))
}

// FontSize returns font-size in points or fallback.
func (s Style) FontSize(fallback float64) float64 {
	if size, ok := ParseLength(s["font-size"]); ok && size > 0 {
		return size
	}
	return fallback
}

// MarginBottom returns margin-bottom in points, zero when absent.
func (s Style) MarginBottom() float64 {
	if m, ok := ParseLength(s["margin-bottom"]); ok && m > 0 {
		return m
	}
	return 0
}

// Bold reports bold font-weight: keyword or numeric weight of 600 and above.
func (s Style) Bold() bool {
	switch w := s.value("font-weight"); w {
	case "bold", "bolder":
		return true
	case "":
		return false
	default:
		n, err := strconv.Atoi(w)
		return err == nil && n >= 600
	}
}

// Italic reports italic or oblique font-style.
func (s Style) Italic() bool {
	switch s.value("font-style") {
	case "italic", "oblique":
		return true
	}
	return false
}

// Color returns text color, black when absent or malformed.
func (s Style) Color() color.RGBA {
	black := color.RGBA{A: 0xff}
	v := strings.TrimSpace(s["color"])
	if len(v) == 0 {
		return black
	}
	c, err := oksvg.ParseSVGColor(strings.ToLower(v))
	if err != nil || c == nil {
		return black
	}
	r, g, b, _ := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
}

// TextAlign returns line alignment, "justify" is treated as left.
func (s Style) TextAlign() Align {
	switch s.value("text-align") {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	}
	return AlignLeft
}

// ParseLength converts CSS length to points. Unitless numbers are points,
// relative units are computed against DefaultFontSize.
func ParseLength(raw string) (float64, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if len(v) == 0 {
		return 0, false
	}

	end := 0
	for end < len(v) && (v[end] >= '0' && v[end] <= '9' || v[end] == '.' || v[end] == '-' || v[end] == '+') {
		end++
	}
	num, err := strconv.ParseFloat(v[:end], 64)
	if err != nil {
		return 0, false
	}

	switch strings.TrimSpace(v[end:]) {
	case "", "pt":
		return num, true
	case "px":
		return num * 0.75, true
	case "em", "rem":
		return num * DefaultFontSize, true
	case "%":
		return num * DefaultFontSize / 100, true
	case "in":
		return num * 72, true
	case "cm":
		return num * 72 / 2.54, true
	case "mm":
		return num * 72 / 25.4, true
	case "pc":
		return num * 12, true
	}
	return 0, false
}
