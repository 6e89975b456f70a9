package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/html"
	"go.uber.org/zap"
)

// Elements which never have content.
var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "meta": true, "link": true,
}

// Parser turns token stream into Document. Mismatched end tags are ignored:
// stack is popped only when end tag matches current element.
type Parser struct {
	log *zap.Logger

	doc   *Document
	stack []*Node

	inStyle bool
	style   strings.Builder
}

func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("markup")}
}

// Parse reads whole input. Only reading errors are reported, malformed markup
// is tolerated.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Document, error) {
	p.doc = NewDocument()
	p.stack = []*Node{p.doc.Root}
	p.inStyle = false
	p.style.Reset()

	lex := html.NewLexer(parse.NewInput(r))

	var current *Node // element whose start tag is being read
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tt, data := lex.Next()
		switch tt {
		case html.ErrorToken:
			if err := lex.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("unable to read markup: %w", err)
			}
			if p.inStyle {
				p.endStyle()
			}
			return p.doc, nil

		case html.StartTagToken:
			current = &Node{
				Type:       ElementNode,
				TagName:    strings.ToLower(string(lex.Text())),
				Attributes: make(map[string]string),
			}

		case html.AttributeToken:
			if current == nil {
				continue
			}
			key := strings.ToLower(string(lex.AttrKey()))
			current.Attributes[key] = attrValue(lex.AttrVal())

		case html.StartTagCloseToken, html.StartTagVoidToken:
			if current == nil {
				continue
			}
			p.openElement(current, tt == html.StartTagVoidToken)
			current = nil

		case html.EndTagToken:
			p.closeElement(strings.ToLower(string(lex.Text())))

		case html.TextToken:
			p.text(data)

		case html.CommentToken, html.DoctypeToken:
			// nothing to do

		default:
			p.log.Debug("Skipping token", zap.Stringer("type", tt), zap.ByteString("data", data))
		}
	}
}

func (p *Parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *Parser) openElement(n *Node, selfClosed bool) {
	if n.TagName == "style" {
		// style blocks are collected and do not become part of the tree
		if !selfClosed {
			p.inStyle = true
			p.style.Reset()
		}
		return
	}
	p.top().AddChild(n)
	if selfClosed || voidElements[n.TagName] {
		return
	}
	p.stack = append(p.stack, n)
}

func (p *Parser) closeElement(tag string) {
	if tag == "style" {
		if p.inStyle {
			p.endStyle()
		}
		return
	}
	if len(p.stack) > 1 && p.top().TagName == tag {
		p.stack = p.stack[:len(p.stack)-1]
		return
	}
	p.log.Debug("Ignoring mismatched end tag", zap.String("tag", tag), zap.String("open", p.top().TagName))
}

func (p *Parser) endStyle() {
	p.doc.Stylesheets = append(p.doc.Stylesheets, p.style.String())
	p.style.Reset()
	p.inStyle = false
}

func (p *Parser) text(data []byte) {
	if p.inStyle {
		p.style.Write(data)
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return
	}
	text := stdhtml.UnescapeString(string(data))
	parent := p.top()
	if parent.TagName == "title" {
		p.doc.Title = strings.Join(strings.Fields(p.doc.Title+" "+text), " ")
	}
	parent.AddChild(&Node{Type: TextNode, Text: text})
}

func attrValue(raw []byte) string {
	if len(raw) >= 2 && (raw[0] == '"' || raw[0] == '\'') && raw[len(raw)-1] == raw[0] {
		raw = raw[1 : len(raw)-1]
	}
	return stdhtml.UnescapeString(string(raw))
}

// Parse is a convenience wrapper for one-off parsing.
func Parse(ctx context.Context, r io.Reader, log *zap.Logger) (*Document, error) {
	return NewParser(log).Parse(ctx, r)
}
