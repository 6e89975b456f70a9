package layout

import (
	"unicode/utf8"

	"htmlpdf/boxes"
)

// Measurer reports advance width of text set in face, in points. Emitters
// provide one matching their own rendering.
type Measurer interface {
	Width(text string, face boxes.Face) float64
}

// MeasureFunc adapts function to Measurer.
type MeasureFunc func(text string, face boxes.Face) float64

func (f MeasureFunc) Width(text string, face boxes.Face) float64 {
	return f(text, face)
}

// FixedMeasurer gives every rune the same advance, a fraction of font size.
// Useful where real font metrics are not available.
type FixedMeasurer struct {
	Advance float64 // em fraction per rune
}

func (m FixedMeasurer) Width(text string, face boxes.Face) float64 {
	return float64(utf8.RuneCountInString(text)) * face.Size * m.Advance
}
