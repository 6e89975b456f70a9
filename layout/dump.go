package layout

import (
	"fmt"

	"htmlpdf/utils/debug"
)

// Dump renders draw list for debug report, grouped by page.
func Dump(instrs []Instruction) []byte {
	tw := debug.NewTreeWriter()
	page := -1
	for _, in := range instrs {
		if in.Page != page {
			page = in.Page
			tw.Line(0, "page %d", page+1)
		}
		tw.Line(1, "%s y=%.2f h=%.2f", in.Kind, in.Y, in.Height)
		for _, f := range in.Fragments {
			tw.Text(2, fmt.Sprintf("x=%.2f w=%.2f", f.X, f.Width), f.Fragment.Text)
		}
	}
	if page < 0 {
		tw.Line(0, "page 1")
	}
	return tw.Bytes()
}
