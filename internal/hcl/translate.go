package hcl

import (
	"fmt"

	"github.com/vk/calcform/internal/config"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// translate converts decoded HCL blocks into the raw schema document.
func translate(root *fileRoot) (*config.Document, error) {
	doc := &config.Document{
		ID:          root.ID,
		Name:        root.Name,
		Description: root.Description,
	}
	for _, f := range root.Formulas {
		doc.Formulas = append(doc.Formulas, config.FormulaDocument{ID: f.Name, Name: f.Name, Expression: f.Expression})
	}
	for _, c := range root.Components {
		cd, err := translateComponent(c)
		if err != nil {
			return nil, fmt.Errorf("component '%s': %w", c.ID, err)
		}
		doc.Components = append(doc.Components, cd)
	}
	for _, s := range root.Sections {
		sd, err := translateSection(s)
		if err != nil {
			return nil, fmt.Errorf("section '%s': %w", s.ID, err)
		}
		doc.Layout = append(doc.Layout, sd)
	}
	return doc, nil
}

func translateComponent(c *Component) (config.ComponentDoc, error) {
	cd := config.ComponentDoc{
		ID:                     c.ID,
		Type:                   c.Type,
		Label:                  c.Label,
		VariableName:           c.VariableName,
		DefaultValue:           c.Default,
		Min:                    c.Min,
		Max:                    c.Max,
		Step:                   c.Step,
		Prefix:                 c.Prefix,
		Suffix:                 c.Suffix,
		DisplayType:            c.DisplayType,
		Mode:                   c.Mode,
		AggregatedVariableName: c.AggregatedVariable,
		Text:                   c.Text,
		Content:                c.Content,
		Style:                  c.Style,
		FontSize:               c.FontSize,
		TextAlign:              c.TextAlign,
	}
	for _, o := range c.Options {
		cd.Options = append(cd.Options, config.OptionDocument{Label: o.Label, Value: o.Value, Prefix: o.Prefix, Suffix: o.Suffix})
	}
	for _, cb := range c.Checkboxes {
		cd.Options = append(cd.Options, config.OptionDocument{
			ID:             cb.ID,
			Label:          cb.Label,
			VariableName:   cb.VariableName,
			CheckedValue:   cb.CheckedValue,
			UncheckedValue: cb.UncheckedValue,
			DefaultValue:   cb.Default,
		})
	}
	blocks, err := translateBlocks(c.Blocks)
	if err != nil {
		return cd, err
	}
	cd.Blocks = blocks
	return cd, nil
}

func translateSection(s *Section) (config.SectionDocument, error) {
	sd := config.SectionDocument{ID: s.ID, Type: s.Type, Name: s.Name, Content: s.Content}
	for i, r := range s.Rows {
		row := config.RowDocument{ID: fmt.Sprintf("%s-row-%d", s.ID, i)}
		for j, c := range r.Columns {
			row.Columns = append(row.Columns, config.ColumnDocument{
				ID:         fmt.Sprintf("%s-row-%d-col-%d", s.ID, i, j),
				Components: c.Components,
			})
		}
		sd.Rows = append(sd.Rows, row)
	}
	for i, l := range s.Lines {
		blocks, err := translateBlocks(l.Blocks)
		if err != nil {
			return sd, fmt.Errorf("line %d: %w", i, err)
		}
		lineType := l.Type
		if lineType == "" && len(blocks) > 0 {
			lineType = string(config.LineConditional)
		}
		sd.Lines = append(sd.Lines, config.LineDocument{
			ID:      fmt.Sprintf("%s-line-%d", s.ID, i),
			Type:    lineType,
			Content: l.Content,
			Blocks:  blocks,
		})
	}
	return sd, nil
}

func translateBlocks(blocks []*Block) ([]config.BlockDocument, error) {
	var out []config.BlockDocument
	for i, b := range blocks {
		bd := config.BlockDocument{
			Type:            b.Type,
			Message:         b.Message,
			Style:           b.Style,
			LogicalOperator: b.Logic,
		}
		for _, c := range b.Conditions {
			value, err := conditionValue(c.Value)
			if err != nil {
				return nil, fmt.Errorf("block %d: %w", i, err)
			}
			bd.Conditions = append(bd.Conditions, config.ConditionDocument{
				TargetType: c.TargetType,
				Target:     c.Target,
				Formula:    c.Formula,
				Operator:   c.Operator,
				Value:      value,
			})
		}
		out = append(out, bd)
	}
	return out, nil
}

// conditionValue converts a condition's value attribute into the string or
// float64 the raw document expects.
func conditionValue(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("condition value must be known at load time")
	}
	if v.Type() == cty.Number {
		f, _ := v.AsBigFloat().Float64()
		return f, nil
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return nil, fmt.Errorf("condition value must be a number or a string: %w", err)
	}
	return s.AsString(), nil
}
