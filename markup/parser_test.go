package markup

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func parseString(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(context.Background(), strings.NewReader(src), zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

// outline renders tree in compact form: tag(children) and "text".
func outline(n *Node) string {
	if n.Type == TextNode {
		return `"` + n.Text + `"`
	}
	parts := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		parts = append(parts, outline(c))
	}
	if len(parts) == 0 {
		return n.TagName
	}
	return n.TagName + "(" + strings.Join(parts, " ") + ")"
}

func TestParse_Tree(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "nested",
			src:  `<html><body><h1>Title</h1><p>Hello <b>bold</b> world</p></body></html>`,
			want: `document(html(body(h1("Title") p("Hello " b("bold") " world"))))`,
		},
		{
			name: "void elements",
			src:  `<p>one<br>two<hr><img src="x.png">three</p>`,
			want: `document(p("one" br "two" hr img "three"))`,
		},
		{
			name: "self closed",
			src:  `<div><span/>text</div>`,
			want: `document(div(span "text"))`,
		},
		{
			name: "whitespace only text skipped",
			src:  "<div>\n   <p>a</p>\n\t</div>",
			want: `document(div(p("a")))`,
		},
		{
			name: "mismatched end tag ignored",
			src:  `<div><p>a</span>b</p>c</div>`,
			want: `document(div(p("a" "b") "c"))`,
		},
		{
			name: "end tag of outer element is not matched through inner",
			src:  `<div><p>a</div>b</p>`,
			want: `document(div(p("a" "b")))`,
		},
		{
			name: "stray end tag at root",
			src:  `</p><p>a</p>`,
			want: `document(p("a"))`,
		},
		{
			name: "unclosed elements",
			src:  `<div><p>a`,
			want: `document(div(p("a")))`,
		},
		{
			name: "case insensitive tags",
			src:  `<DIV><P>a</P></DIV>`,
			want: `document(div(p("a")))`,
		},
		{
			name: "entities",
			src:  `<p>a &amp; b &lt;c&gt;</p>`,
			want: `document(p("a & b <c>"))`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parseString(t, tt.src)
			if got := outline(doc.Root); got != tt.want {
				t.Errorf("tree = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestParse_ParentLinks(t *testing.T) {
	doc := parseString(t, `<div><p>a</p></div>`)
	div := doc.Root.Children[0]
	p := div.Children[0]
	text := p.Children[0]
	if div.Parent != doc.Root || p.Parent != div || text.Parent != p {
		t.Error("parent links are broken")
	}
	if len(text.Children) != 0 || text.TagName != "" {
		t.Error("text node must have no children and no tag")
	}
}

func TestParse_Styles(t *testing.T) {
	doc := parseString(t, `<html><head><style>p { color: red }</style></head>
<body><p>x</p><style>.note { font-size: 10pt }</style></body></html>`)

	want := []string{"p { color: red }", ".note { font-size: 10pt }"}
	if diff := cmp.Diff(want, doc.Stylesheets); diff != "" {
		t.Errorf("Stylesheets mismatch (-want +got):\n%s", diff)
	}
	if got := outline(doc.Root); strings.Contains(got, "style") {
		t.Errorf("style element must not be in the tree: %s", got)
	}
}

func TestParse_UnterminatedStyle(t *testing.T) {
	doc := parseString(t, `<style>h1 { font-size: 30pt }`)
	if len(doc.Stylesheets) != 1 || !strings.Contains(doc.Stylesheets[0], "30pt") {
		t.Errorf("Stylesheets = %q", doc.Stylesheets)
	}
}

func TestParse_Title(t *testing.T) {
	doc := parseString(t, "<html><head><title>  Quarterly\n report </title></head><body></body></html>")
	if doc.Title != "Quarterly report" {
		t.Errorf("Title = %q", doc.Title)
	}
}

func TestParse_Attributes(t *testing.T) {
	doc := parseString(t, `<p id=intro class="note  wide" style='color: blue' data-x="a &amp; b">x</p>`)
	p := doc.Root.Children[0]

	if p.ID() != "intro" {
		t.Errorf("ID() = %q", p.ID())
	}
	if p.Class() != "note" {
		t.Errorf("Class() = %q, want first token", p.Class())
	}
	if v, _ := p.Attribute("style"); v != "color: blue" {
		t.Errorf("style = %q", v)
	}
	if v, _ := p.Attribute("data-x"); v != "a & b" {
		t.Errorf("data-x = %q", v)
	}
	if _, ok := p.Attribute("missing"); ok {
		t.Error("missing attribute reported as present")
	}
}

func TestParse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewParser(nil).Parse(ctx, strings.NewReader("<p>a</p>")); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestParse_Reuse(t *testing.T) {
	p := NewParser(nil)
	first, err := p.Parse(context.Background(), strings.NewReader("<style>a{}</style><p>1</p>"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Parse(context.Background(), strings.NewReader("<p>2</p>"))
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Stylesheets) != 1 || len(second.Stylesheets) != 0 {
		t.Errorf("state leaked between runs: %q %q", first.Stylesheets, second.Stylesheets)
	}
	if outline(second.Root) != `document(p("2"))` {
		t.Errorf("second tree = %s", outline(second.Root))
	}
}
