package config

import (
	"fmt"
	"sort"

	"github.com/vk/calcform/internal/formula"
	"github.com/vk/calcform/internal/rules"
)

// Model is the unified, format-agnostic representation of a calculator
// schema.
type Model struct {
	ID          string
	Name        string
	Description string
	Formulas    []formula.Formula
	Components  []*Component
	Layout      []*Section
}

// ComponentType is the widget kind of a component.
type ComponentType string

const (
	NumberInput       ComponentType = "numberInput"
	Slider            ComponentType = "slider"
	Dropdown          ComponentType = "dropdown"
	Radio             ComponentType = "radio"
	TextBlock         ComponentType = "textBlock"
	Categorical       ComponentType = "categorical"
	Checkboxes        ComponentType = "checkboxes"
	Text              ComponentType = "text"
	ResultRegular     ComponentType = "resultRegular"
	ResultConditional ComponentType = "resultConditional"
)

// IsCategorical reports whether the component picks one of a fixed set of
// options.
func (t ComponentType) IsCategorical() bool {
	switch t {
	case Dropdown, Radio, TextBlock, Categorical:
		return true
	}
	return false
}

// CheckboxMode controls whether a checkbox group maintains a sum variable.
type CheckboxMode string

const (
	ModeNormal   CheckboxMode = "normal"
	ModeAdvanced CheckboxMode = "advanced"
)

// Option is a choice of a categorical component.
type Option struct {
	Label  string
	Value  float64
	Prefix string
	Suffix string
}

// CheckboxOption is a single box of a checkbox group. Each box owns a
// variable that holds either CheckedValue or UncheckedValue.
type CheckboxOption struct {
	ID             string
	Label          string
	VariableName   string
	CheckedValue   float64
	UncheckedValue float64
	DefaultValue   float64
}

// Component is a schema component. Only the fields relevant to its Type are
// populated.
type Component struct {
	ID           string
	Type         ComponentType
	Label        string
	VariableName string
	DefaultValue float64

	// numberInput, slider
	Min    float64
	Max    float64
	Step   float64
	Prefix string
	Suffix string

	// dropdown, radio, textBlock, categorical
	DisplayType string
	Options     []Option

	// checkboxes
	Mode                   CheckboxMode
	AggregatedVariableName string
	CheckboxOptions        []CheckboxOption

	// text, resultRegular, resultConditional
	Text      string
	Content   string
	Style     rules.Style
	Blocks    []rules.Block
	FontSize  string
	TextAlign string
}

// SectionType distinguishes input sections from result sections.
type SectionType string

const (
	SectionInput  SectionType = "input"
	SectionResult SectionType = "result"
)

// Section is one entry of the layout.
type Section struct {
	ID   string
	Type SectionType
	Name string
	Rows []Row
	// Lines is only used by result sections. A legacy content string is
	// folded into a single regular line at load time.
	Lines []Line
}

// Row groups columns of an input section.
type Row struct {
	ID      string
	Columns []Column
}

// Column lists component ids in display order.
type Column struct {
	ID         string
	Components []string
}

// LineType distinguishes plain template lines from conditional ones.
type LineType string

const (
	LineRegular     LineType = "regular"
	LineConditional LineType = "conditional"
)

// Line is one line of a result section.
type Line struct {
	ID      string
	Type    LineType
	Content string
	Rule    rules.Line
}

// Component looks up a component by id.
func (m *Model) Component(id string) (*Component, bool) {
	for _, c := range m.Components {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// VariableNames returns the sorted, unique names of every variable a
// component of the model can set.
func (m *Model) VariableNames() []string {
	seen := make(map[string]struct{})
	add := func(name string) {
		if name != "" {
			seen[name] = struct{}{}
		}
	}
	for _, c := range m.Components {
		add(c.VariableName)
		add(c.AggregatedVariableName)
		for _, opt := range c.CheckboxOptions {
			add(opt.VariableName)
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the invariants every loader must uphold.
func (m *Model) Validate() error {
	formulas := make(map[string]struct{}, len(m.Formulas))
	for _, f := range m.Formulas {
		if _, ok := formulas[f.Name]; ok {
			return fmt.Errorf("%w: '%s'", ErrDuplicateFormula, f.Name)
		}
		formulas[f.Name] = struct{}{}
	}
	components := make(map[string]struct{}, len(m.Components))
	for _, c := range m.Components {
		if _, ok := components[c.ID]; ok {
			return fmt.Errorf("%w: '%s'", ErrDuplicateComponent, c.ID)
		}
		components[c.ID] = struct{}{}
	}
	return nil
}

// Merge appends other to m. Root attributes of m win when both are set.
func (m *Model) Merge(other *Model) {
	if m.ID == "" {
		m.ID = other.ID
	}
	if m.Name == "" {
		m.Name = other.Name
	}
	if m.Description == "" {
		m.Description = other.Description
	}
	m.Formulas = append(m.Formulas, other.Formulas...)
	m.Components = append(m.Components, other.Components...)
	m.Layout = append(m.Layout, other.Layout...)
}
