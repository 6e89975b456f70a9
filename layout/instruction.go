package layout

import (
	"htmlpdf/boxes"
)

type InstructionKind int

const (
	TextLine InstructionKind = iota
	VerticalGap
	HorizontalRule
)

func (k InstructionKind) String() string {
	switch k {
	case TextLine:
		return "text"
	case VerticalGap:
		return "gap"
	case HorizontalRule:
		return "rule"
	default:
		return "unknown"
	}
}

// Positioned is fragment placed on a line, X is relative to left margin.
type Positioned struct {
	X        float64
	Width    float64
	Fragment boxes.Fragment
}

// Instruction is a single draw list entry. Y is measured down from the top of
// the content area: baseline for text lines, top of the gap, position of the
// rule line.
type Instruction struct {
	Page      int
	Kind      InstructionKind
	Y         float64
	Height    float64
	Fragments []Positioned
}

// Pages returns number of pages instructions occupy, at least one.
func Pages(instrs []Instruction) int {
	if len(instrs) == 0 {
		return 1
	}
	return instrs[len(instrs)-1].Page + 1
}
