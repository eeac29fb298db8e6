package config

import (
	"fmt"
	"strconv"

	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/formula"
	"github.com/vk/calcform/internal/rules"
)

// Document is the raw, serialized shape of a calculator schema as the widget
// stores it. JSON and TOML loaders decode straight into it; the HCL loader
// translates its blocks into it. Model canonicalizes it.
type Document struct {
	ID          string            `json:"id" toml:"id"`
	Name        string            `json:"name" toml:"name"`
	Description string            `json:"description" toml:"description"`
	Layout      []SectionDocument `json:"layout" toml:"layout"`
	Components  []ComponentDoc    `json:"components" toml:"components"`
	Formulas    []FormulaDocument `json:"formulas" toml:"formulas"`
}

type FormulaDocument struct {
	ID         string `json:"id" toml:"id"`
	Name       string `json:"name" toml:"name"`
	Expression string `json:"expression" toml:"expression"`
}

// ComponentDoc carries the union of every component type's fields.
type ComponentDoc struct {
	ID           string   `json:"id" toml:"id"`
	Type         string   `json:"type" toml:"type"`
	Label        string   `json:"label" toml:"label"`
	VariableName string   `json:"variableName" toml:"variableName"`
	DefaultValue *float64 `json:"defaultValue" toml:"defaultValue"`

	Min    float64 `json:"min" toml:"min"`
	Max    float64 `json:"max" toml:"max"`
	Step   float64 `json:"step" toml:"step"`
	Prefix string  `json:"prefix" toml:"prefix"`
	Suffix string  `json:"suffix" toml:"suffix"`

	DisplayType string           `json:"displayType" toml:"displayType"`
	Options     []OptionDocument `json:"options" toml:"options"`

	Mode                   string `json:"mode" toml:"mode"`
	AggregationFunction    string `json:"aggregationFunction" toml:"aggregationFunction"`
	AggregatedVariableName string `json:"aggregatedVariableName" toml:"aggregatedVariableName"`

	Text      string          `json:"text" toml:"text"`
	Content   string          `json:"content" toml:"content"`
	Style     string          `json:"style" toml:"style"`
	Blocks    []BlockDocument `json:"blocks" toml:"blocks"`
	FontSize  string          `json:"fontSize" toml:"fontSize"`
	TextAlign string          `json:"textAlign" toml:"textAlign"`
}

// OptionDocument is either a categorical option or a checkbox option,
// depending on the owning component.
type OptionDocument struct {
	ID     string  `json:"id" toml:"id"`
	Label  string  `json:"label" toml:"label"`
	Value  float64 `json:"value" toml:"value"`
	Prefix string  `json:"prefix" toml:"prefix"`
	Suffix string  `json:"suffix" toml:"suffix"`

	VariableName   string  `json:"variableName" toml:"variableName"`
	CheckedValue   float64 `json:"checkedValue" toml:"checkedValue"`
	UncheckedValue float64 `json:"uncheckedValue" toml:"uncheckedValue"`
	DefaultValue   float64 `json:"defaultValue" toml:"defaultValue"`
}

type SectionDocument struct {
	ID      string         `json:"id" toml:"id"`
	Type    string         `json:"type" toml:"type"`
	Name    string         `json:"name" toml:"name"`
	Rows    []RowDocument  `json:"rows" toml:"rows"`
	Lines   []LineDocument `json:"lines" toml:"lines"`
	Content string         `json:"content" toml:"content"`
}

type RowDocument struct {
	ID      string           `json:"id" toml:"id"`
	Columns []ColumnDocument `json:"columns" toml:"columns"`
}

type ColumnDocument struct {
	ID         string   `json:"id" toml:"id"`
	Components []string `json:"components" toml:"components"`
}

type LineDocument struct {
	ID      string          `json:"id" toml:"id"`
	Type    string          `json:"type" toml:"type"`
	Content string          `json:"content" toml:"content"`
	Blocks  []BlockDocument `json:"blocks" toml:"blocks"`
}

type BlockDocument struct {
	ID              string              `json:"id" toml:"id"`
	Type            string              `json:"type" toml:"type"`
	Message         string              `json:"message" toml:"message"`
	Style           string              `json:"style" toml:"style"`
	Conditions      []ConditionDocument `json:"conditions" toml:"conditions"`
	LogicalOperator string              `json:"logicalOperator" toml:"logicalOperator"`
	Condition       *ConditionDocument  `json:"condition" toml:"condition"`
}

// ConditionDocument holds both the current target form and the legacy
// formula shorthand. Value may be a string or a number.
type ConditionDocument struct {
	ID         string `json:"id" toml:"id"`
	Target     string `json:"target" toml:"target"`
	TargetType string `json:"targetType" toml:"targetType"`
	Formula    string `json:"formula" toml:"formula"`
	Operator   string `json:"operator" toml:"operator"`
	Value      any    `json:"value" toml:"value"`
}

// Model canonicalizes the document and validates the result.
func (d *Document) Model() (*Model, error) {
	m := &Model{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Formulas:    make([]formula.Formula, 0, len(d.Formulas)),
		Components:  make([]*Component, 0, len(d.Components)),
		Layout:      make([]*Section, 0, len(d.Layout)),
	}
	for _, f := range d.Formulas {
		m.Formulas = append(m.Formulas, formula.Formula{Name: f.Name, Expression: f.Expression})
	}
	for _, c := range d.Components {
		m.Components = append(m.Components, c.component())
	}
	for _, s := range d.Layout {
		m.Layout = append(m.Layout, s.section())
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (c ComponentDoc) component() *Component {
	out := &Component{
		ID:                     c.ID,
		Type:                   ComponentType(c.Type),
		Label:                  c.Label,
		VariableName:           c.VariableName,
		Min:                    c.Min,
		Max:                    c.Max,
		Step:                   c.Step,
		Prefix:                 c.Prefix,
		Suffix:                 c.Suffix,
		DisplayType:            c.DisplayType,
		Mode:                   CheckboxMode(c.Mode),
		AggregatedVariableName: c.AggregatedVariableName,
		Text:                   c.Text,
		Content:                c.Content,
		Style:                  rules.ParseStyle(c.Style),
		Blocks:                 blocks(c.Blocks),
		FontSize:               c.FontSize,
		TextAlign:              c.TextAlign,
	}
	if c.DefaultValue != nil {
		out.DefaultValue = *c.DefaultValue
	}
	if out.Type == Checkboxes {
		for _, o := range c.Options {
			out.CheckboxOptions = append(out.CheckboxOptions, CheckboxOption{
				ID:             o.ID,
				Label:          o.Label,
				VariableName:   o.VariableName,
				CheckedValue:   o.CheckedValue,
				UncheckedValue: o.UncheckedValue,
				DefaultValue:   o.DefaultValue,
			})
		}
		return out
	}
	for _, o := range c.Options {
		out.Options = append(out.Options, Option{Label: o.Label, Value: o.Value, Prefix: o.Prefix, Suffix: o.Suffix})
	}
	return out
}

func (s SectionDocument) section() *Section {
	out := &Section{ID: s.ID, Type: SectionType(s.Type), Name: s.Name}
	for _, r := range s.Rows {
		row := Row{ID: r.ID}
		for _, c := range r.Columns {
			row.Columns = append(row.Columns, Column{ID: c.ID, Components: c.Components})
		}
		out.Rows = append(out.Rows, row)
	}
	if s.Lines == nil {
		if s.Content != "" {
			out.Lines = []Line{{ID: "legacy", Type: LineRegular, Content: s.Content}}
		}
		return out
	}
	out.Lines = make([]Line, 0, len(s.Lines))
	for _, l := range s.Lines {
		t := LineType(l.Type)
		if t == "" {
			t = LineRegular
		}
		out.Lines = append(out.Lines, Line{
			ID:      l.ID,
			Type:    t,
			Content: l.Content,
			Rule:    rules.Line{Blocks: blocks(l.Blocks)},
		})
	}
	return out
}

func blocks(docs []BlockDocument) []rules.Block {
	if len(docs) == 0 {
		return nil
	}
	out := make([]rules.Block, 0, len(docs))
	for _, b := range docs {
		conditions := make([]rules.Condition, 0, len(b.Conditions))
		for _, c := range b.Conditions {
			conditions = append(conditions, c.condition())
		}
		var legacy *rules.Condition
		if b.Condition != nil {
			c := b.Condition.condition()
			legacy = &c
		}
		out = append(out, rules.NewBlock(
			rules.ParseBlockKind(b.Type),
			conditions,
			legacy,
			rules.ParseLogic(b.LogicalOperator),
			b.Message,
			rules.ParseStyle(b.Style),
		))
	}
	return out
}

func (c ConditionDocument) condition() rules.Condition {
	return rules.NewCondition(c.TargetType, c.Target, c.Formula, rules.Operator(c.Operator), ConditionValue(c.Value))
}

// ConditionValue renders a decoded condition value as the text the rule
// engine parses. Numbers use the same formatting as template output.
func ConditionValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return content.FormatNumber(v)
	case float32:
		return content.FormatNumber(float64(v))
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return fmt.Sprint(v)
	}
}
