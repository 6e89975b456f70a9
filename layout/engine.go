package layout

import (
	"strings"

	"go.uber.org/zap"

	"htmlpdf/boxes"
	"htmlpdf/css"
)

// RuleMode selects how horizontal rules are laid out.
type RuleMode int

const (
	// RuleLine draws a line centred in a fixed band.
	RuleLine RuleMode = iota
	// RuleGaps leaves two gaps and draws nothing.
	RuleGaps
)

const (
	DefaultLeading = 1.2
	ruleBand       = 12.0
	ruleGap        = 6.0
)

type Options struct {
	Leading float64
	Rule    RuleMode
}

// Engine is the flow and pagination engine. It is stateless between calls
// and safe for concurrent use as long as measurer is.
type Engine struct {
	measurer Measurer
	opts     Options
	log      *zap.Logger
}

func NewEngine(m Measurer, opts Options, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Leading <= 0 {
		opts.Leading = DefaultLeading
	}
	return &Engine{measurer: m, opts: opts, log: log.Named("layout")}
}

// pager keeps per page flow state.
type pager struct {
	geom       Geometry
	out        []Instruction
	page       int
	cursorY    float64
	remaining  float64
	hasContent bool
}

func (p *pager) newPage() {
	p.page++
	p.cursorY = 0
	p.remaining = p.geom.ContentHeight()
	p.hasContent = false
}

// reserve allocates h points for a line or rule, moving to the next page when
// current one has content and h does not fit. Content taller than an empty
// page is placed anyway. Returns top of the allocated space.
func (p *pager) reserve(h float64) float64 {
	if h > p.remaining && p.hasContent {
		p.newPage()
	}
	y := p.cursorY
	p.cursorY += h
	p.remaining = max(0, p.remaining-h)
	p.hasContent = true
	return y
}

// gap adds vertical space clamped to what is left on the page. Gap never
// starts a new page.
func (p *pager) gap(h float64) {
	h = min(h, p.remaining)
	if h <= 0 {
		return
	}
	p.out = append(p.out, Instruction{Page: p.page, Kind: VerticalGap, Y: p.cursorY, Height: h})
	p.cursorY += h
	p.remaining -= h
	p.hasContent = true
}

type blockFrame struct {
	box       *boxes.Box
	next      int
	lines     int
	afterText bool
}

// Paginate lays out box tree on pages of given geometry. Layout never fails:
// nil tree or geometry without room for content produce no instructions.
// Page indices of the result never decrease.
func (e *Engine) Paginate(root *boxes.Box, geom Geometry) []Instruction {
	if root == nil {
		return nil
	}
	if geom.ContentWidth() <= 0 || geom.ContentHeight() <= 0 {
		e.log.Warn("Page has no room for content", zap.Float64("width", geom.ContentWidth()), zap.Float64("height", geom.ContentHeight()))
		return nil
	}

	p := &pager{geom: geom, remaining: geom.ContentHeight()}
	stack := []*blockFrame{{box: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next >= len(f.box.Children) {
			stack = stack[:len(stack)-1]
			if f.lines > 0 {
				p.gap(f.box.Style.MarginBottom())
			}
			continue
		}
		child := f.box.Children[f.next]
		f.next++

		switch child.Kind {
		case boxes.InlineRun:
			n := e.flow(p, f.box.Style.TextAlign(), child.Fragments)
			f.lines += n
			f.afterText = n > 0
		case boxes.LineBreak:
			if !f.afterText {
				p.gap(f.box.FontSize() * e.opts.Leading)
			}
			f.afterText = false
		case boxes.Rule:
			e.rule(p)
			f.afterText = false
		case boxes.Block:
			stack = append(stack, &blockFrame{box: child})
			f.afterText = false
		}
	}

	e.log.Debug("Layout complete", zap.Int("pages", p.page+1), zap.Int("instructions", len(p.out)))
	return p.out
}

// rule places the band as one unit, in gaps mode both gaps are inside it.
func (e *Engine) rule(p *pager) {
	y := p.reserve(ruleBand)
	if e.opts.Rule == RuleGaps {
		p.out = append(p.out,
			Instruction{Page: p.page, Kind: VerticalGap, Y: y, Height: ruleGap},
			Instruction{Page: p.page, Kind: VerticalGap, Y: y + ruleGap, Height: ruleGap})
		return
	}
	p.out = append(p.out, Instruction{Page: p.page, Kind: HorizontalRule, Y: y + ruleBand/2, Height: ruleBand})
}

type word struct {
	text  string
	frag  int
	width float64
	space float64 // width of separating space before the word
}

// wrap packs words greedily: a word goes to the next line when it and one
// separating space do not fit. Word wider than the line is placed alone.
func (e *Engine) wrap(frags []boxes.Fragment, width float64) [][]word {
	var (
		lines [][]word
		line  []word
		used  float64
	)
	for i, f := range frags {
		space := e.measurer.Width(" ", f.Face)
		for w := range strings.FieldsSeq(f.Text) {
			wd := word{text: w, frag: i, width: e.measurer.Width(w, f.Face), space: space}
			if len(line) == 0 {
				line, used = []word{wd}, wd.width
				continue
			}
			if used+wd.space+wd.width > width {
				lines = append(lines, line)
				line, used = []word{wd}, wd.width
				continue
			}
			line = append(line, wd)
			used += wd.space + wd.width
		}
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}
	return lines
}

// flow wraps fragments into lines and places them. Returns number of lines.
func (e *Engine) flow(p *pager, align css.Align, frags []boxes.Fragment) int {
	width := p.geom.ContentWidth()
	lines := e.wrap(frags, width)
	for _, line := range lines {
		var size float64
		for _, w := range line {
			size = max(size, frags[w.frag].Face.Size)
		}
		positioned, used := place(line, frags)

		var offset float64
		switch align {
		case css.AlignCenter:
			offset = max(0, (width-used)/2)
		case css.AlignRight:
			offset = max(0, width-used)
		}
		for i := range positioned {
			positioned[i].X += offset
		}

		top := p.reserve(size * e.opts.Leading)
		p.out = append(p.out, Instruction{
			Page:      p.page,
			Kind:      TextLine,
			Y:         top + size,
			Height:    size * e.opts.Leading,
			Fragments: positioned,
		})
	}
	return len(lines)
}

// place merges consecutive words of the same fragment into one positioned
// fragment. Returns them with total line width.
func place(line []word, frags []boxes.Fragment) ([]Positioned, float64) {
	var (
		out   []Positioned
		texts []string
		x     float64
	)
	flush := func() {
		if len(out) > 0 {
			out[len(out)-1].Fragment.Text = strings.Join(texts, " ")
		}
	}
	for i, w := range line {
		if i > 0 {
			x += w.space
		}
		if len(out) == 0 || line[i-1].frag != w.frag {
			flush()
			out = append(out, Positioned{X: x, Fragment: frags[w.frag]})
			texts = texts[:0]
		}
		texts = append(texts, w.text)
		x += w.width
		last := &out[len(out)-1]
		last.Width = x - last.X
	}
	flush()
	return out, x
}
