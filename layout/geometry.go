// Package layout flows box tree into fixed size pages producing list of draw
// instructions.
package layout

import "strings"

// Size of a page in points.
type Size struct {
	Width  float64
	Height float64
}

var (
	A4     = Size{Width: 595.2755905511812, Height: 841.8897637795277}
	Letter = Size{Width: 612, Height: 792}
)

// NamedSize looks up page size by case insensitive name.
func NamedSize(name string) (Size, bool) {
	switch strings.ToLower(name) {
	case "a4":
		return A4, true
	case "letter":
		return Letter, true
	}
	return Size{}, false
}

type Margins struct {
	Top, Right, Bottom, Left float64
}

// UniformMargins returns margins equal on all sides.
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

// Geometry is page size with margins. Immutable for a conversion.
type Geometry struct {
	Size
	Margins Margins
}

func NewGeometry(size Size, margins Margins) Geometry {
	return Geometry{Size: size, Margins: margins}
}

// ContentWidth is width available for text.
func (g Geometry) ContentWidth() float64 {
	return g.Width - g.Margins.Left - g.Margins.Right
}

// ContentHeight is height available for flow on every page.
func (g Geometry) ContentHeight() float64 {
	return g.Height - g.Margins.Top - g.Margins.Bottom
}
