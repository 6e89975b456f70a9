package css

import (
	"context"
	"image/color"
	"slices"
	"strings"
	"testing"

	"htmlpdf/markup"
)

var testDefaults = NewDefaults(map[string]map[string]string{
	"h1":   {"font-size": "24pt", "font-weight": "bold", "margin-bottom": "12pt"},
	"p":    {"font-size": "12pt", "margin-bottom": "6pt"},
	"span": {"font-size": "12pt"},
})

// firstElement finds first element with given tag in document order.
func firstElement(t *testing.T, src, tag string) *markup.Node {
	t.Helper()
	doc, err := markup.Parse(context.Background(), strings.NewReader(src), nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	stack := []*markup.Node{doc.Root}
	for len(stack) > 0 {
		n := stack[0]
		stack = stack[1:]
		if n.IsElement(tag) {
			return n
		}
		stack = slices.Concat(n.Children, stack)
	}
	t.Fatalf("no %s element", tag)
	return nil
}

func resolver(css string) *Resolver {
	return NewResolver(testDefaults, NewRuleSet(NewParser(nil).Parse([]byte(css))), nil)
}

func TestResolve_ClassBeatsTag(t *testing.T) {
	r := resolver(`.note { font-size: 10pt } p { font-size: 14pt }`)
	n := firstElement(t, `<p class="note">x</p>`, "p")
	if got := r.Resolve(n).FontSize(0); got != 10 {
		t.Errorf("font-size = %v, want 10 (class rule)", got)
	}
}

func TestResolve_Layers(t *testing.T) {
	r := resolver(`
p { color: red; margin-bottom: 1pt }
.note { color: green; font-style: italic }
#intro { color: blue }
`)
	tests := []struct {
		name string
		tag  string
		src  string
		want Style
	}{
		{
			name: "defaults only",
			tag:  "h1",
			src:  `<h1>x</h1>`,
			want: Style{"font-size": "24pt", "font-weight": "bold", "margin-bottom": "12pt"},
		},
		{
			name: "tag rule over default",
			tag:  "p",
			src:  `<p>x</p>`,
			want: Style{"font-size": "12pt", "margin-bottom": "1pt", "color": "red"},
		},
		{
			name: "id over class over tag",
			tag:  "p",
			src:  `<p class="note" id="intro">x</p>`,
			want: Style{"font-size": "12pt", "margin-bottom": "1pt", "color": "blue", "font-style": "italic"},
		},
		{
			name: "inline over id",
			tag:  "p",
			src:  `<p id="intro" style="color: black; font-size: 8pt">x</p>`,
			want: Style{"font-size": "8pt", "margin-bottom": "1pt", "color": "black"},
		},
		{
			name: "only first class token",
			tag:  "p",
			src:  `<p class="other note">x</p>`,
			want: Style{"font-size": "12pt", "margin-bottom": "1pt", "color": "red"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(firstElement(t, tt.src, tt.tag))
			if len(got) != len(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("%s = %q, want %q", k, got[k], v)
				}
			}
		})
	}
}

func TestResolve_UnknownTag(t *testing.T) {
	r := resolver(`p { color: red }`)
	if got := r.Resolve(firstElement(t, `<table>x</table>`, "table")); len(got) != 0 {
		t.Errorf("unknown tag style = %v, want empty", got)
	}
	if got := r.Resolve(nil); len(got) != 0 {
		t.Errorf("nil node style = %v", got)
	}
}

func TestResolve_FreshResult(t *testing.T) {
	r := resolver(`p { color: red }`)
	n := firstElement(t, `<p>x</p>`, "p")
	first := r.Resolve(n)
	first["color"] = "green"
	if got := r.Resolve(n)["color"]; got != "red" {
		t.Errorf("resolver state was modified through result: %q", got)
	}
	if testDefaults["p"]["color"] != "" {
		t.Error("defaults were modified through result")
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12pt", 12, true},
		{"12", 12, true},
		{"16px", 12, true},
		{"2em", 24, true},
		{"1in", 72, true},
		{"2.54cm", 72, true},
		{"25.4mm", 72, true},
		{"50%", 6, true},
		{" 10PT ", 10, true},
		{"", 0, false},
		{"large", 0, false},
		{"12furlongs", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseLength(tt.in)
		if ok != tt.ok || (ok && (got-tt.want > 1e-9 || tt.want-got > 1e-9)) {
			t.Errorf("ParseLength(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStyleAccessors(t *testing.T) {
	s := Style{
		"font-size":     "bogus",
		"margin-bottom": "-4pt",
		"font-weight":   "700",
		"font-style":    "oblique",
		"color":         "#ff0000",
		"text-align":    "Center",
	}
	if s.FontSize(11) != 11 {
		t.Errorf("FontSize fallback = %v", s.FontSize(11))
	}
	if s.MarginBottom() != 0 {
		t.Errorf("MarginBottom = %v", s.MarginBottom())
	}
	if !s.Bold() || !s.Italic() {
		t.Error("expected bold italic")
	}
	if s.Color() != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("Color = %v", s.Color())
	}
	if s.TextAlign() != AlignCenter {
		t.Errorf("TextAlign = %v", s.TextAlign())
	}

	empty := Style{}
	if empty.Bold() || empty.Italic() || empty.TextAlign() != AlignLeft {
		t.Error("empty style must be plain")
	}
	if empty.Color() != (color.RGBA{A: 0xff}) {
		t.Errorf("default color = %v", empty.Color())
	}
	if (Style{"color": "navy"}).Color() != (color.RGBA{B: 0x80, A: 0xff}) {
		t.Errorf("named color = %v", (Style{"color": "navy"}).Color())
	}
	if (Style{"color": "not-a-color"}).Color() != (color.RGBA{A: 0xff}) {
		t.Error("malformed color must fall back to black")
	}
	if (Style{"font-weight": "normal"}).Bold() {
		t.Error("normal weight is not bold")
	}
}

func TestResolveAs(t *testing.T) {
	r := resolver(`h1 { color: red } .x { color: green }`)
	n := firstElement(t, `<h9>x</h9>`, "h9")
	if got := r.ResolveAs(n, "h1"); got["font-size"] != "24pt" || got["color"] != "red" {
		t.Errorf("ResolveAs(h1) = %v", got)
	}
	n = firstElement(t, `<h9 class="x">x</h9>`, "h9")
	if got := r.ResolveAs(n, "h1"); got["color"] != "green" {
		t.Errorf("class must still apply, got %v", got)
	}
}
