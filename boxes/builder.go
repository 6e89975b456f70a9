package boxes

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"htmlpdf/css"
	"htmlpdf/markup"
)

// Subtrees never rendered.
var excluded = map[string]bool{
	"head": true, "style": true, "script": true, "title": true, "meta": true, "link": true,
}

// Inline level elements, emphasis ones add to fragment emphasis.
var inline = map[string]Emphasis{
	"strong": {Bold: true},
	"b":      {Bold: true},
	"em":     {Italic: true},
	"i":      {Italic: true},
	"span":   {},
	"a":      {},
	"u":      {},
	"s":      {},
	"small":  {},
	"big":    {},
	"code":   {},
	"kbd":    {},
	"samp":   {},
	"var":    {},
	"tt":     {},
	"sub":    {},
	"sup":    {},
	"mark":   {},
	"abbr":   {},
	"cite":   {},
	"q":      {},
	"time":   {},
	"label":  {},
	"font":   {},
}

// Void elements without box of their own.
var skipped = map[string]bool{
	"img": true, "input": true,
}

// Builder makes box tree from markup. Walk uses explicit stack, so nesting
// depth of input is not limited by call stack.
type Builder struct {
	resolver *css.Resolver
	shaper   *Shaper
	log      *zap.Logger
}

func NewBuilder(resolver *css.Resolver, shaper *Shaper, log *zap.Logger) *Builder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{resolver: resolver, shaper: shaper, log: log.Named("boxes")}
}

// blockState is a block under construction with its open inline run.
// Visible is set once the block or any nested block has text or a rule, line
// breaks alone do not count.
type blockState struct {
	box     *Box
	run     *Box
	visible bool
}

func (bs *blockState) appendFragment(f Fragment) {
	if bs.run == nil {
		bs.run = &Box{Kind: InlineRun}
		bs.box.Children = append(bs.box.Children, bs.run)
	}
	bs.run.Fragments = append(bs.run.Fragments, f)
	bs.visible = true
}

func (bs *blockState) appendBox(b *Box) {
	bs.box.Children = append(bs.box.Children, b)
	bs.run = nil
}

// dropLast removes invisible block which was just finished, text following it
// continues preceding inline run.
func (bs *blockState) dropLast() {
	kids := bs.box.Children[:len(bs.box.Children)-1]
	bs.box.Children = kids
	if n := len(kids); n > 0 && kids[n-1].Kind == InlineRun {
		bs.run = kids[n-1]
	}
}

type frame struct {
	node   *markup.Node
	next   int
	block  *blockState
	parent *blockState // set when frame owns block
	em     Emphasis
}

// Build returns box for the node or nil when nothing visible is produced.
func (b *Builder) Build(root *markup.Node) *Box {
	if root == nil || root.Type != markup.ElementNode || excluded[root.TagName] {
		return nil
	}

	top := &blockState{box: b.newBlock(root)}
	stack := []*frame{{node: root, block: top}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next >= len(f.node.Children) {
			stack = stack[:len(stack)-1]
			if f.parent != nil {
				if f.block.visible {
					f.parent.visible = true
				} else {
					f.parent.dropLast()
				}
			}
			continue
		}
		child := f.node.Children[f.next]
		f.next++

		if child.Type == markup.TextNode {
			if frag, ok := b.shaper.Fragment(child.Text, f.em, f.block.box.Style); ok {
				f.block.appendFragment(frag)
			}
			continue
		}

		tag := child.TagName
		switch {
		case excluded[tag], skipped[tag]:
			continue
		case tag == "br":
			f.block.appendBox(&Box{Kind: LineBreak, Tag: tag})
		case tag == "hr":
			f.block.appendBox(&Box{Kind: Rule, Tag: tag})
			f.block.visible = true
		default:
			if em, ok := inline[tag]; ok {
				stack = append(stack, &frame{node: child, block: f.block, em: f.em.Or(em)})
				continue
			}
			nb := &blockState{box: b.newBlock(child)}
			f.block.appendBox(nb.box)
			stack = append(stack, &frame{node: child, block: nb, parent: f.block, em: f.em})
		}
	}

	if !top.visible {
		return nil
	}
	return top.box
}

func (b *Builder) newBlock(n *markup.Node) *Box {
	box := &Box{Kind: Block, Role: Container, Tag: n.TagName}
	switch level, ok := headingLevel(n.TagName); {
	case ok:
		box.Role, box.Level = Heading, level
		// levels above 6 look like h6
		box.Style = b.resolver.ResolveAs(n, "h"+strconv.Itoa(level))
		if strconv.Itoa(level) != n.TagName[1:] {
			b.log.Debug("Heading level clamped", zap.String("tag", n.TagName), zap.Int("level", level))
		}
		return box
	case n.TagName == "p":
		box.Role = Paragraph
	}
	box.Style = b.resolver.Resolve(n)
	return box
}

// headingLevel parses hN tags, clamping N to 1..6.
func headingLevel(tag string) (int, bool) {
	if len(tag) < 2 || tag[0] != 'h' {
		return 0, false
	}
	n, err := strconv.Atoi(tag[1:])
	if err != nil || n < 1 || strings.HasPrefix(tag[1:], "+") {
		return 0, false
	}
	return min(n, 6), true
}
