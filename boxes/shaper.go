package boxes

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"htmlpdf/css"
)

// Shaper makes text fragments. Every fragment is set in the same substitution
// family, size and weight come from the enclosing block.
type Shaper struct {
	family string
}

func NewShaper(family string) *Shaper {
	return &Shaper{family: family}
}

// Fragment normalizes text to NFC, collapses whitespace runs and trims it.
// Returns false when nothing is left.
func (s *Shaper) Fragment(text string, em Emphasis, block css.Style) (Fragment, bool) {
	text = strings.Join(strings.Fields(norm.NFC.String(text)), " ")
	if len(text) == 0 {
		return Fragment{}, false
	}
	return Fragment{
		Text:     text,
		Emphasis: em,
		Face: Face{
			Family: s.family,
			Size:   block.FontSize(css.DefaultFontSize),
			Bold:   em.Bold || block.Bold(),
			Italic: em.Italic || block.Italic(),
		},
		Color: block.Color(),
	}, true
}

// Flatten returns fragments of the block's own inline runs in order. Nested
// blocks are not included.
func (s *Shaper) Flatten(block *Box) []Fragment {
	if block == nil {
		return nil
	}
	var out []Fragment
	for _, c := range block.Children {
		if c.Kind == InlineRun {
			out = append(out, c.Fragments...)
		}
	}
	return out
}
