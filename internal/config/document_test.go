package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/formula"
	"github.com/vk/calcform/internal/rules"
)

func ptr(f float64) *float64 { return &f }

func TestDocument_Model(t *testing.T) {
	doc := config.Document{
		ID:   "loan",
		Name: "Loan",
		Formulas: []config.FormulaDocument{
			{ID: "f1", Name: "monthly", Expression: "amount / months"},
		},
		Components: []config.ComponentDoc{
			{ID: "c1", Type: "slider", VariableName: "amount", DefaultValue: ptr(1000), Prefix: "$"},
			{ID: "c2", Type: "dropdown", VariableName: "months", Options: []config.OptionDocument{
				{Label: "One year", Value: 12},
				{Label: "Two years", Value: 24},
			}},
			{ID: "c3", Type: "checkboxes", Mode: "normal", AggregatedVariableName: "extras", Options: []config.OptionDocument{
				{ID: "o1", Label: "Insurance", VariableName: "ins", CheckedValue: 50, DefaultValue: 50},
			}},
			{ID: "c4", Type: "resultConditional", Blocks: []config.BlockDocument{
				{Type: "if", Message: "High", Style: "warning", Condition: &config.ConditionDocument{Formula: "monthly", Operator: "greater_than", Value: 100.0}},
				{Type: "else", Message: "Fine"},
			}},
		},
		Layout: []config.SectionDocument{
			{ID: "s1", Type: "input", Rows: []config.RowDocument{{ID: "r1", Columns: []config.ColumnDocument{{ID: "col1", Components: []string{"c1", "c2"}}}}}},
			{ID: "s2", Type: "result", Content: "Pay {formula:monthly}"},
			{ID: "s3", Type: "result", Lines: []config.LineDocument{
				{ID: "l1", Content: "Amount {amount}"},
				{ID: "l2", Type: "conditional", Blocks: []config.BlockDocument{{
					Type:            "if",
					LogicalOperator: "or",
					Conditions: []config.ConditionDocument{
						{TargetType: "variable", Target: "amount", Operator: "less_than", Value: "10"},
						{TargetType: "formula", Target: "monthly", Operator: "equal", Value: 0.5},
					},
				}}},
			}},
			{ID: "s4", Type: "result", Lines: []config.LineDocument{}, Content: "ignored"},
		},
	}

	m, err := doc.Model()
	require.NoError(t, err)

	assert.Equal(t, []formula.Formula{{Name: "monthly", Expression: "amount / months"}}, m.Formulas)

	slider, ok := m.Component("c1")
	require.True(t, ok)
	assert.Equal(t, 1000.0, slider.DefaultValue)
	assert.Equal(t, "$", slider.Prefix)

	dropdown, _ := m.Component("c2")
	assert.Equal(t, []config.Option{{Label: "One year", Value: 12}, {Label: "Two years", Value: 24}}, dropdown.Options)
	assert.Empty(t, dropdown.CheckboxOptions)

	boxes, _ := m.Component("c3")
	require.Len(t, boxes.CheckboxOptions, 1)
	assert.Equal(t, config.ModeNormal, boxes.Mode)
	assert.Equal(t, "ins", boxes.CheckboxOptions[0].VariableName)
	assert.Empty(t, boxes.Options)

	cond, _ := m.Component("c4")
	require.Len(t, cond.Blocks, 2)
	assert.Equal(t, []rules.Condition{{
		Target:   rules.Target{Kind: rules.TargetFormula, Name: "monthly"},
		Operator: rules.GreaterThan,
		Value:    "100",
	}}, cond.Blocks[0].Conditions)
	assert.Equal(t, rules.StyleWarning, cond.Blocks[0].Style)
	assert.Equal(t, rules.Else, cond.Blocks[1].Kind)
	assert.Equal(t, rules.StyleDefault, cond.Blocks[1].Style)

	require.Len(t, m.Layout, 4)
	assert.Equal(t, []config.Line{{ID: "legacy", Type: config.LineRegular, Content: "Pay {formula:monthly}"}}, m.Layout[1].Lines)

	lines := m.Layout[2].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, config.LineRegular, lines[0].Type)
	assert.Equal(t, config.LineConditional, lines[1].Type)
	block := lines[1].Rule.Blocks[0]
	assert.Equal(t, rules.Or, block.Logic)
	assert.Equal(t, "10", block.Conditions[0].Value)
	assert.Equal(t, rules.TargetVariable, block.Conditions[0].Target.Kind)
	assert.Equal(t, "0.5", block.Conditions[1].Value)

	assert.Empty(t, m.Layout[3].Lines, "explicit empty lines take precedence over legacy content")

	assert.Equal(t, []string{"amount", "extras", "ins", "months"}, m.VariableNames())
}

func TestDocument_ModelDuplicates(t *testing.T) {
	doc := config.Document{Formulas: []config.FormulaDocument{{Name: "a", Expression: "1"}, {Name: "a", Expression: "2"}}}
	_, err := doc.Model()
	require.ErrorIs(t, err, config.ErrDuplicateFormula)

	doc = config.Document{Components: []config.ComponentDoc{{ID: "x", Type: "text"}, {ID: "x", Type: "text"}}}
	_, err = doc.Model()
	require.ErrorIs(t, err, config.ErrDuplicateComponent)
}

func TestModel_Merge(t *testing.T) {
	m := &config.Model{Name: "first", Formulas: []formula.Formula{{Name: "a", Expression: "1"}}}
	m.Merge(&config.Model{ID: "id", Name: "second", Formulas: []formula.Formula{{Name: "b", Expression: "2"}}})

	assert.Equal(t, "id", m.ID)
	assert.Equal(t, "first", m.Name)
	assert.Len(t, m.Formulas, 2)
}

func TestConditionValue(t *testing.T) {
	testCases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{42.0, "42"},
		{1.5, "1.5"},
		{int64(7), "7"},
		{3, "3"},
		{true, "true"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, config.ConditionValue(tc.in))
	}
}
