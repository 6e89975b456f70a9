package css

import (
	"maps"

	"go.uber.org/zap"

	"htmlpdf/markup"
)

// Defaults is built-in per tag style table.
type Defaults map[string]Properties

// NewDefaults copies configuration table so later changes to it are not
// visible.
func NewDefaults(table map[string]map[string]string) Defaults {
	out := make(Defaults, len(table))
	for tag, props := range table {
		out[tag] = Properties(maps.Clone(props))
	}
	return out
}

// Resolver computes effective style of elements from the ordered layers:
// built-in tag defaults, tag rules, class rules, id rules and inline style
// attribute. Each layer overrides keys of the previous ones. Nothing is
// inherited from ancestors.
type Resolver struct {
	defaults Defaults
	rules    *RuleSet
	inline   *Parser
}

func NewResolver(defaults Defaults, rules *RuleSet, log *zap.Logger) *Resolver {
	return &Resolver{defaults: defaults, rules: rules, inline: NewParser(log)}
}

// Resolve returns a fresh effective style for the element. Text nodes and
// unknown tags without matching rules get empty style.
func (r *Resolver) Resolve(n *markup.Node) Style {
	if n == nil {
		return make(Style)
	}
	return r.ResolveAs(n, n.TagName)
}

// ResolveAs resolves element style as if it had a different tag name, class
// and id of the element are still used.
func (r *Resolver) ResolveAs(n *markup.Node, tag string) Style {
	style := make(Style)
	if n == nil || n.Type != markup.ElementNode {
		return style
	}

	layers := []Properties{
		r.defaults[tag],
		r.rules.Lookup(Selector{Kind: TagSelector, Name: tag}),
	}
	if class := n.Class(); len(class) > 0 {
		layers = append(layers, r.rules.Lookup(Selector{Kind: ClassSelector, Name: class}))
	}
	if id := n.ID(); len(id) > 0 {
		layers = append(layers, r.rules.Lookup(Selector{Kind: IDSelector, Name: id}))
	}
	if inline, ok := n.Attribute("style"); ok {
		layers = append(layers, r.inline.ParseInline([]byte(inline)))
	}

	for _, layer := range layers {
		maps.Copy(style, layer)
	}
	return style
}
