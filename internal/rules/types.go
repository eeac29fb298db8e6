// Package rules evaluates conditional result lines.
//
// A Line is an ordered if / elseif / else chain. Each if or elseif Block
// combines its Conditions with AND (the default) or OR; blocks are strictly
// ordered alternatives and the first match wins. There is no nesting and no
// logic across blocks.
//
// Schemas written before multi-condition blocks existed carry a single
// condition that names a formula directly. Loaders fold that shape into the
// canonical types here with NewCondition and NewBlock, so evaluation never
// needs to know which schema version it is looking at.
package rules

import "strings"

// Operator is a numeric comparison.
type Operator string

const (
	GreaterThan  Operator = "greater_than"
	LessThan     Operator = "less_than"
	GreaterEqual Operator = "greater_equal"
	LessEqual    Operator = "less_equal"
	Equal        Operator = "equal"
	NotEqual     Operator = "not_equal"
)

// Style is the visual tone of a rendered result.
type Style string

const (
	StyleDefault Style = "default"
	StyleSuccess Style = "success"
	StyleWarning Style = "warning"
	StyleError   Style = "error"
)

// ParseStyle maps a schema value onto a Style, falling back to StyleDefault.
func ParseStyle(s string) Style {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case StyleSuccess, StyleWarning, StyleError:
		return st
	default:
		return StyleDefault
	}
}

// Logic combines the conditions of one block.
type Logic string

const (
	And Logic = "and"
	Or  Logic = "or"
)

// ParseLogic returns Or for "or" and And for anything else.
func ParseLogic(s string) Logic {
	if strings.EqualFold(strings.TrimSpace(s), string(Or)) {
		return Or
	}
	return And
}

// BlockKind tags a branch of a conditional line.
type BlockKind string

const (
	If     BlockKind = "if"
	ElseIf BlockKind = "elseif"
	Else   BlockKind = "else"
)

// ParseBlockKind maps a schema value onto a BlockKind. Anything that is not an
// else branch is evaluated as a conditional branch.
func ParseBlockKind(s string) BlockKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "else":
		return Else
	case "elseif", "else_if", "else if":
		return ElseIf
	default:
		return If
	}
}

// TargetKind says where a condition reads its left-hand value from.
type TargetKind int

const (
	// TargetNone marks a condition with no usable target. It never matches.
	TargetNone TargetKind = iota
	TargetVariable
	TargetFormula
)

func (k TargetKind) String() string {
	switch k {
	case TargetVariable:
		return "variable"
	case TargetFormula:
		return "formula"
	default:
		return "none"
	}
}

// Target names the variable or formula a condition compares.
type Target struct {
	Kind TargetKind
	Name string
}

// Condition compares a target against a literal. Value keeps the schema's
// text and is parsed leniently at evaluation time.
type Condition struct {
	Target   Target
	Operator Operator
	Value    string
}

// NewCondition builds a canonical condition from either schema shape.
// targetType and target describe the current shape; legacyFormula is the
// formula name of the older shorthand and is only used when targetType is
// neither "variable" nor "formula".
func NewCondition(targetType, target, legacyFormula string, op Operator, value string) Condition {
	c := Condition{Operator: op, Value: value}
	switch strings.ToLower(strings.TrimSpace(targetType)) {
	case "variable":
		c.Target = Target{Kind: TargetVariable, Name: target}
	case "formula":
		c.Target = Target{Kind: TargetFormula, Name: target}
	default:
		if legacyFormula != "" {
			c.Target = Target{Kind: TargetFormula, Name: legacyFormula}
		}
	}
	return c
}

// Block is one branch of a conditional line.
type Block struct {
	Kind       BlockKind
	Conditions []Condition
	Logic      Logic
	Message    string
	Style      Style
}

// NewBlock builds a canonical block. When conditions is empty the legacy
// single condition, if any, becomes the only condition.
func NewBlock(kind BlockKind, conditions []Condition, legacy *Condition, logic Logic, message string, style Style) Block {
	if len(conditions) == 0 && legacy != nil {
		conditions = []Condition{*legacy}
	}
	if logic == "" {
		logic = And
	}
	if style == "" {
		style = StyleDefault
	}
	return Block{
		Kind:       kind,
		Conditions: conditions,
		Logic:      logic,
		Message:    message,
		Style:      style,
	}
}

// Line is an ordered chain of blocks.
type Line struct {
	Blocks []Block
}

// Result is the message and style of the block that matched.
type Result struct {
	Message string
	Style   Style
}
