package css

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// SelectorKind is the only part of specificity which matters: id beats class
// beats tag.
type SelectorKind int

const (
	TagSelector SelectorKind = iota
	ClassSelector
	IDSelector
)

// Selector is a single tag, ".class" or "#id" selector.
type Selector struct {
	Kind SelectorKind
	Name string
}

func (s Selector) String() string {
	switch s.Kind {
	case ClassSelector:
		return "." + s.Name
	case IDSelector:
		return "#" + s.Name
	default:
		return s.Name
	}
}

// Specificity follows usual 1/10/100 weights for tag/class/id.
func (s Selector) Specificity() int {
	switch s.Kind {
	case ClassSelector:
		return 10
	case IDSelector:
		return 100
	default:
		return 1
	}
}

// Properties maps lower-cased property names to their raw values.
type Properties map[string]string

// Merge copies src over p, later values win.
func (p Properties) Merge(src Properties) {
	maps.Copy(p, src)
}

func (p Properties) String() string {
	keys := slices.Sorted(maps.Keys(p))
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteString("; ")
		}
		fmt.Fprintf(&sb, "%s: %s", k, p[k])
	}
	return sb.String()
}

// Rule binds declarations to a selector.
type Rule struct {
	Selector   Selector
	Properties Properties
}

// Stylesheet is a parsed style block: rules in source order and
// human readable notes about everything which was skipped.
type Stylesheet struct {
	Rules    []Rule
	Warnings []string
}

// RuleSet accumulates rules of several stylesheets. Declarations for the
// same selector are merged property by property, last one wins.
type RuleSet struct {
	rules map[Selector]Properties
}

func NewRuleSet(sheets ...*Stylesheet) *RuleSet {
	rs := &RuleSet{rules: make(map[Selector]Properties)}
	for _, sheet := range sheets {
		rs.Add(sheet)
	}
	return rs
}

// Add merges rules of the sheet in order.
func (rs *RuleSet) Add(sheet *Stylesheet) {
	if sheet == nil {
		return
	}
	for _, r := range sheet.Rules {
		props, ok := rs.rules[r.Selector]
		if !ok {
			props = make(Properties, len(r.Properties))
			rs.rules[r.Selector] = props
		}
		props.Merge(r.Properties)
	}
}

// Lookup returns merged declarations for the selector, nil if there are none.
// Result must not be modified.
func (rs *RuleSet) Lookup(sel Selector) Properties {
	if rs == nil {
		return nil
	}
	return rs.rules[sel]
}

func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// Selectors returns all known selectors ordered by specificity then name.
func (rs *RuleSet) Selectors() []Selector {
	if rs == nil {
		return nil
	}
	out := slices.Collect(maps.Keys(rs.rules))
	slices.SortFunc(out, func(a, b Selector) int {
		if d := a.Specificity() - b.Specificity(); d != 0 {
			return d
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}
