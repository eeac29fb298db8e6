package hcl

import "github.com/zclconf/go-cty/cty"

// fileRoot decodes all possible top-level attributes and blocks of a file.
// Anything else is a decode error.
type fileRoot struct {
	ID          string       `hcl:"id,optional"`
	Name        string       `hcl:"name,optional"`
	Description string       `hcl:"description,optional"`
	Formulas    []*Formula   `hcl:"formula,block"`
	Components  []*Component `hcl:"component,block"`
	Sections    []*Section   `hcl:"section,block"`
}

// Formula represents a `formula "name" {}` block.
type Formula struct {
	Name       string `hcl:"name,label"`
	Expression string `hcl:"expression"`
}

// Component represents a `component "id" {}` block. The attributes that
// apply depend on type.
type Component struct {
	ID           string   `hcl:"id,label"`
	Type         string   `hcl:"type"`
	Label        string   `hcl:"label,optional"`
	VariableName string   `hcl:"variable,optional"`
	Default      *float64 `hcl:"default,optional"`

	Min    float64 `hcl:"min,optional"`
	Max    float64 `hcl:"max,optional"`
	Step   float64 `hcl:"step,optional"`
	Prefix string  `hcl:"prefix,optional"`
	Suffix string  `hcl:"suffix,optional"`

	DisplayType string      `hcl:"display_type,optional"`
	Options     []*Option   `hcl:"option,block"`
	Checkboxes  []*Checkbox `hcl:"checkbox,block"`

	Mode               string `hcl:"mode,optional"`
	AggregatedVariable string `hcl:"aggregated_variable,optional"`

	Text      string   `hcl:"text,optional"`
	Content   string   `hcl:"content,optional"`
	Style     string   `hcl:"style,optional"`
	Blocks    []*Block `hcl:"block,block"`
	FontSize  string   `hcl:"font_size,optional"`
	TextAlign string   `hcl:"text_align,optional"`
}

// Option is a choice of a categorical component.
type Option struct {
	Label  string  `hcl:"label"`
	Value  float64 `hcl:"value"`
	Prefix string  `hcl:"prefix,optional"`
	Suffix string  `hcl:"suffix,optional"`
}

// Checkbox is a `checkbox "id" {}` block of a checkboxes component.
type Checkbox struct {
	ID             string  `hcl:"id,label"`
	Label          string  `hcl:"label,optional"`
	VariableName   string  `hcl:"variable"`
	CheckedValue   float64 `hcl:"checked_value,optional"`
	UncheckedValue float64 `hcl:"unchecked_value,optional"`
	Default        float64 `hcl:"default,optional"`
}

// Section represents a `section "id" {}` block of the layout.
type Section struct {
	ID      string  `hcl:"id,label"`
	Type    string  `hcl:"type"`
	Name    string  `hcl:"name,optional"`
	Content string  `hcl:"content,optional"`
	Rows    []*Row  `hcl:"row,block"`
	Lines   []*Line `hcl:"line,block"`
}

type Row struct {
	Columns []*Column `hcl:"column,block"`
}

type Column struct {
	Components []string `hcl:"components"`
}

// Line is a line of a result section. A line with blocks is conditional.
type Line struct {
	Type    string   `hcl:"type,optional"`
	Content string   `hcl:"content,optional"`
	Blocks  []*Block `hcl:"block,block"`
}

// Block is one branch of a conditional line or component.
type Block struct {
	Type       string       `hcl:"type,optional"`
	Message    string       `hcl:"message,optional"`
	Style      string       `hcl:"style,optional"`
	Logic      string       `hcl:"logic,optional"`
	Conditions []*Condition `hcl:"condition,block"`
}

// Condition compares a variable or formula against a value. The value may
// be written as a number or as a string.
type Condition struct {
	TargetType string    `hcl:"target_type,optional"`
	Target     string    `hcl:"target,optional"`
	Formula    string    `hcl:"formula,optional"`
	Operator   string    `hcl:"operator"`
	Value      cty.Value `hcl:"value,optional"`
}
