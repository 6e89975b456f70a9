package boxes

import (
	"fmt"

	"htmlpdf/css"
	"htmlpdf/utils/debug"
)

// Dump renders box tree for debug report.
func Dump(root *Box) []byte {
	tw := debug.NewTreeWriter()
	if root == nil {
		tw.Line(0, "<empty>")
		return tw.Bytes()
	}

	type item struct {
		box   *Box
		depth int
	}
	stack := []item{{root, 0}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b := it.box
		switch b.Kind {
		case Block:
			if b.Role == Heading {
				tw.Line(it.depth, "%s <%s> %s level=%d {%s}", b.Kind, b.Tag, b.Role, b.Level, propsString(b))
			} else {
				tw.Line(it.depth, "%s <%s> %s {%s}", b.Kind, b.Tag, b.Role, propsString(b))
			}
		case InlineRun:
			tw.Line(it.depth, "%s", b.Kind)
			for _, f := range b.Fragments {
				tw.Text(it.depth+1, faceString(f.Face), f.Text)
			}
		default:
			tw.Line(it.depth, "%s", b.Kind)
		}
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{b.Children[i], it.depth + 1})
		}
	}
	return tw.Bytes()
}

func propsString(b *Box) string {
	return css.Properties(b.Style).String()
}

func faceString(f Face) string {
	s := fmt.Sprintf("%s %gpt", f.Family, f.Size)
	if f.Bold {
		s += " bold"
	}
	if f.Italic {
		s += " italic"
	}
	return s
}
