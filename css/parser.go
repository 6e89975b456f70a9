package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Guards against parser returning errors without consuming input.
const maxParseErrors = 1000

// Parser parses CSS text into rules with simple selectors.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses stylesheet text. Anything not understood is skipped and noted
// in Warnings. Optional source identifies what is being parsed in the log.
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	var (
		selectors []Selector
		props     Properties
		inRuleset bool
		errCount  int
	)
	for {
		gt, _, text := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.stop(parser, sheet, &errCount) {
				return sheet
			}

		case css.BeginRulesetGrammar:
			selectors = p.parseSelectors(text, parser.Values(), sheet)
			props = make(Properties)
			inRuleset = true

		case css.DeclarationGrammar:
			if !inRuleset {
				continue
			}
			if name, value, ok := declaration(text, parser.Values()); ok {
				props[name] = value
			}

		case css.EndRulesetGrammar:
			if inRuleset && len(props) > 0 {
				for _, sel := range selectors {
					rule := Rule{Selector: sel, Properties: make(Properties, len(props))}
					rule.Properties.Merge(props)
					sheet.Rules = append(sheet.Rules, rule)
				}
			}
			selectors, props, inRuleset = nil, nil, false

		case css.BeginAtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+string(text))
			p.skipBlock(parser)

		case css.AtRuleGrammar:
			sheet.Warnings = append(sheet.Warnings, "unsupported at-rule: "+string(text))

		case css.QualifiedRuleGrammar, css.CustomPropertyGrammar, css.CommentGrammar:
			// nothing to do
		}
	}
}

// ParseInline parses content of style attribute.
func (p *Parser) ParseInline(data []byte) Properties {
	props := make(Properties)
	if len(bytes.TrimSpace(data)) == 0 {
		return props
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), true)
	sheet := &Stylesheet{}
	var errCount int
	for {
		gt, _, text := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.stop(parser, sheet, &errCount) {
				return props
			}
		case css.DeclarationGrammar:
			if name, value, ok := declaration(text, parser.Values()); ok {
				props[name] = value
			}
		}
	}
}

// stop decides if ErrorGrammar ends parsing. Malformed declarations are
// reported by the parser as errors too and are skipped.
func (p *Parser) stop(parser *css.Parser, sheet *Stylesheet, count *int) bool {
	err := parser.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	*count++
	sheet.Warnings = append(sheet.Warnings, err.Error())
	p.log.Debug("Skipping malformed CSS", zap.Error(err))
	return *count >= maxParseErrors
}

// skipBlock consumes at-rule block including nested rulesets.
func (p *Parser) skipBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err == nil || errors.Is(err, io.EOF) {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseSelectors splits selector group and keeps simple selectors only.
func (p *Parser) parseSelectors(data []byte, values []css.Token, sheet *Stylesheet) []Selector {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var out []Selector
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.TrimSpace(s)
		if len(s) == 0 {
			continue
		}
		sel, ok := parseSelector(s)
		if !ok {
			sheet.Warnings = append(sheet.Warnings, "unsupported selector: "+s)
			p.log.Warn("Skipping unsupported selector", zap.String("selector", s))
			continue
		}
		out = append(out, sel)
	}
	return out
}

func parseSelector(s string) (Selector, bool) {
	kind := TagSelector
	name := s
	switch s[0] {
	case '.':
		kind, name = ClassSelector, s[1:]
	case '#':
		kind, name = IDSelector, s[1:]
	}
	if !isIdent(name) {
		return Selector{}, false
	}
	if kind == TagSelector {
		name = strings.ToLower(name)
	}
	return Selector{Kind: kind, Name: name}, true
}

func isIdent(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r > 0x7f:
		case r == '-' || (r >= '0' && r <= '9'):
			if i == 0 && r != '-' {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// declaration builds property name and raw value from parser tokens.
func declaration(name []byte, tokens []css.Token) (string, string, bool) {
	var sb strings.Builder
	pendingSpace := false
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			pendingSpace = sb.Len() > 0
			continue
		}
		if pendingSpace {
			sb.WriteByte(' ')
			pendingSpace = false
		}
		sb.Write(t.Data)
	}
	value := strings.TrimSpace(sb.String())
	value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
	prop := strings.ToLower(strings.TrimSpace(string(name)))
	if len(prop) == 0 || len(value) == 0 {
		return "", "", false
	}
	return prop, value, true
}
