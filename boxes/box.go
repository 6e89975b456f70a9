// Package boxes turns markup tree into tree of layout boxes with styled text
// fragments.
package boxes

import (
	"image/color"

	"htmlpdf/css"
)

type Kind int

const (
	Block Kind = iota
	InlineRun
	LineBreak
	Rule
)

func (k Kind) String() string {
	switch k {
	case Block:
		return "block"
	case InlineRun:
		return "inline"
	case LineBreak:
		return "br"
	case Rule:
		return "rule"
	default:
		return "unknown"
	}
}

// Role is semantic role of a block.
type Role int

const (
	Container Role = iota
	Paragraph
	Heading
)

func (r Role) String() string {
	switch r {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	default:
		return "container"
	}
}

// Box is a node of layout tree. Blocks have style and children, inline runs
// have fragments, line breaks and rules have neither.
type Box struct {
	Kind  Kind
	Role  Role
	Level int // heading level, 1-6
	Tag   string
	Style css.Style

	Children  []*Box
	Fragments []Fragment
}

// FontSize is font size of the block text in points.
func (b *Box) FontSize() float64 {
	return b.Style.FontSize(css.DefaultFontSize)
}

// Emphasis collected from strong/b and em/i ancestors.
type Emphasis struct {
	Bold   bool
	Italic bool
}

func (e Emphasis) Or(o Emphasis) Emphasis {
	return Emphasis{Bold: e.Bold || o.Bold, Italic: e.Italic || o.Italic}
}

// Face is resolved font: family, size in points and variant.
type Face struct {
	Family string
	Size   float64
	Bold   bool
	Italic bool
}

// Fragment is a run of text set in a single face. It never spans emphasis
// boundary.
type Fragment struct {
	Text     string
	Emphasis Emphasis
	Face     Face
	Color    color.RGBA
}
