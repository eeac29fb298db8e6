package calculator

import (
	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/formula"
	"github.com/vk/calcform/internal/rules"
)

const defaultText = "Text Display"

// View is a rendered snapshot of a session.
type View struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name,omitempty"`
	Description string             `json:"description,omitempty"`
	Sections    []SectionView      `json:"sections"`
	Variables   map[string]float64 `json:"variables"`
}

// SectionView is a rendered layout section.
type SectionView struct {
	ID    string             `json:"id"`
	Type  config.SectionType `json:"type"`
	Name  string             `json:"name,omitempty"`
	Rows  []RowView          `json:"rows,omitempty"`
	Lines []LineView         `json:"lines,omitempty"`
}

type RowView struct {
	ID      string       `json:"id"`
	Columns []ColumnView `json:"columns"`
}

type ColumnView struct {
	ID         string          `json:"id"`
	Components []ComponentView `json:"components"`
}

// LineView is a rendered result line. Conditional lines carry the style of
// the block that matched.
type LineView struct {
	ID          string      `json:"id"`
	Text        string      `json:"text"`
	Style       rules.Style `json:"style"`
	Conditional bool        `json:"conditional,omitempty"`
}

// ComponentView is a rendered component. Text is what the component shows:
// the formatted value of an input, the selected option of a categorical
// component, or the rendered content of a text or result component.
type ComponentView struct {
	ID        string               `json:"id"`
	Type      config.ComponentType `json:"type"`
	Label     string               `json:"label,omitempty"`
	Variable  string               `json:"variable,omitempty"`
	Value     float64              `json:"value"`
	Text      string               `json:"text"`
	Prefix    string               `json:"prefix,omitempty"`
	Suffix    string               `json:"suffix,omitempty"`
	Style     rules.Style          `json:"style,omitempty"`
	FontSize  string               `json:"fontSize,omitempty"`
	TextAlign string               `json:"textAlign,omitempty"`
	Options   []OptionView         `json:"options,omitempty"`
}

// OptionView is a checkbox option or a categorical choice.
type OptionView struct {
	ID       string  `json:"id,omitempty"`
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Selected bool    `json:"selected"`
}

// Render renders every section of the layout against one snapshot of the
// variables. Components referenced by a column but missing from the schema
// are skipped, as are sections and components of unknown type.
func (c *Calculator) Render() View {
	vars := c.store.Snapshot()
	env := rules.Env{Variables: vars, Formulas: c.model.Formulas}

	view := View{
		ID:          c.model.ID,
		Name:        c.model.Name,
		Description: c.model.Description,
		Sections:    make([]SectionView, 0, len(c.model.Layout)),
		Variables:   vars,
	}

	for _, s := range c.model.Layout {
		switch s.Type {
		case config.SectionInput:
			view.Sections = append(view.Sections, c.renderInputSection(env, s))
		case config.SectionResult:
			view.Sections = append(view.Sections, c.renderResultSection(env, s))
		}
	}
	return view
}

func (c *Calculator) renderInputSection(env rules.Env, s *config.Section) SectionView {
	sv := SectionView{ID: s.ID, Type: s.Type, Name: s.Name}
	for _, r := range s.Rows {
		rv := RowView{ID: r.ID, Columns: make([]ColumnView, 0, len(r.Columns))}
		for _, col := range r.Columns {
			cv := ColumnView{ID: col.ID, Components: []ComponentView{}}
			for _, id := range col.Components {
				comp, ok := c.model.Component(id)
				if !ok {
					continue
				}
				if v, ok := c.renderComponent(env, comp); ok {
					cv.Components = append(cv.Components, v)
				}
			}
			rv.Columns = append(rv.Columns, cv)
		}
		sv.Rows = append(sv.Rows, rv)
	}
	return sv
}

func (c *Calculator) renderResultSection(env rules.Env, s *config.Section) SectionView {
	sv := SectionView{ID: s.ID, Type: s.Type, Name: s.Name}
	for _, l := range s.Lines {
		switch l.Type {
		case config.LineRegular:
			sv.Lines = append(sv.Lines, LineView{
				ID:    l.ID,
				Text:  c.content.Parse(l.Content, env.Variables, env.Formulas),
				Style: rules.StyleDefault,
			})
		case config.LineConditional:
			res, ok := c.rules.EvaluateLine(env, l.Rule)
			if !ok || res.Message == "" {
				continue
			}
			sv.Lines = append(sv.Lines, LineView{ID: l.ID, Text: res.Message, Style: res.Style, Conditional: true})
		}
	}
	return sv
}

// renderComponent reports false for components that render nothing.
func (c *Calculator) renderComponent(env rules.Env, comp *config.Component) (ComponentView, bool) {
	v := ComponentView{
		ID:       comp.ID,
		Type:     comp.Type,
		Label:    comp.Label,
		Variable: comp.VariableName,
		Value:    valueOf(env.Variables, comp.VariableName, comp.DefaultValue),
	}

	switch {
	case comp.Type == config.NumberInput || comp.Type == config.Slider:
		v.Prefix, v.Suffix = comp.Prefix, comp.Suffix
		v.Text = content.FormatNumber(v.Value)

	case comp.Type.IsCategorical():
		if len(comp.Options) == 0 {
			v.Text = content.FormatNumber(v.Value)
			return v, true
		}
		selected := 0
		for i, opt := range comp.Options {
			if opt.Value == v.Value {
				selected = i
				break
			}
		}
		for i, opt := range comp.Options {
			v.Options = append(v.Options, OptionView{Label: opt.Label, Value: opt.Value, Selected: i == selected})
		}
		opt := comp.Options[selected]
		v.Text, v.Prefix, v.Suffix = opt.Label, opt.Prefix, opt.Suffix

	case comp.Type == config.Checkboxes:
		v.Variable = comp.AggregatedVariableName
		v.Value = valueOf(env.Variables, comp.AggregatedVariableName, 0)
		v.Text = content.FormatNumber(v.Value)
		for _, opt := range comp.CheckboxOptions {
			value := valueOf(env.Variables, opt.VariableName, opt.DefaultValue)
			v.Options = append(v.Options, OptionView{
				ID:       opt.ID,
				Label:    opt.Label,
				Value:    value,
				Selected: value == opt.CheckedValue,
			})
		}

	case comp.Type == config.Text:
		v.Text = comp.Text
		if v.Text == "" {
			v.Text = defaultText
		}
		v.FontSize, v.TextAlign = comp.FontSize, comp.TextAlign

	case comp.Type == config.ResultRegular:
		v.Text = c.content.Parse(comp.Content, env.Variables, env.Formulas)
		v.Style = comp.Style
		v.FontSize, v.TextAlign = comp.FontSize, comp.TextAlign

	case comp.Type == config.ResultConditional:
		res, ok := c.rules.EvaluateLine(env, rules.Line{Blocks: comp.Blocks})
		if !ok {
			return v, false
		}
		v.Text, v.Style = res.Message, res.Style
		v.FontSize, v.TextAlign = comp.FontSize, comp.TextAlign

	default:
		return v, false
	}
	return v, true
}

// valueOf returns the variable's value, else fallback.
func valueOf(vars formula.Variables, name string, fallback float64) float64 {
	if name == "" {
		return fallback
	}
	if v, ok := vars[name]; ok {
		return v
	}
	return fallback
}
