package content_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/evaluator"
	"github.com/vk/calcform/internal/formula"
)

func newParser() *content.Parser {
	return content.NewParser(formula.NewService(evaluator.NewHCL(), nil))
}

func TestParse(t *testing.T) {
	p := newParser()
	formulas := []formula.Formula{
		{Name: "tax", Expression: "total*0.1"},
		{Name: "net", Expression: "total - tax"},
		{Name: "broken", Expression: "total +* 1"},
	}

	testCases := []struct {
		name string
		text string
		vars formula.Variables
		want string
	}{
		{"variables and formulas", "Total: {total} ({formula:tax})", formula.Variables{"total": 100}, "Total: 100 (10.00)"},
		{"unknown variable left verbatim", "{unknown}", nil, "{unknown}"},
		{"unknown formula left verbatim", "{formula:missing}", nil, "{formula:missing}"},
		{"zero is substituted", "{x}", formula.Variables{"x": 0}, "0"},
		{"fractions", "{rate}%", formula.Variables{"rate": 2.5}, "2.5%"},
		{"negative", "{delta}", formula.Variables{"delta": -3}, "-3"},
		{"formula depending on formula", "{formula:net}", formula.Variables{"total": 50}, "45.00"},
		{"formula with missing variable", "{formula:tax}", nil, "0.00"},
		{"broken formula renders zero", "{formula:broken}", formula.Variables{"total": 1}, "0.00"},
		{"repeated placeholders", "{a}+{a}={formula:tax}", formula.Variables{"a": 1, "total": 20}, "1+1=2.00"},
		{"not an identifier", "{1abc} {a b}", formula.Variables{"a": 1}, "{1abc} {a b}"},
		{"plain text", "no placeholders", nil, "no placeholders"},
		{"empty", "", formula.Variables{"a": 1}, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, p.Parse(tc.text, tc.vars, formulas))
		})
	}
}

func TestParse_VariablePassRunsFirst(t *testing.T) {
	p := newParser()
	formulas := []formula.Formula{{Name: "double", Expression: "n * 2"}}

	// A variable named "formula" cannot break the formula placeholder syntax.
	got := p.Parse("{formula} {formula:double}", formula.Variables{"formula": 7, "n": 4}, formulas)

	assert.Equal(t, "7 8.00", got)
}

func TestFormatNumber(t *testing.T) {
	testCases := map[float64]string{
		100:          "100",
		2.5:          "2.5",
		-0.75:        "-0.75",
		1e21:         "1e+21",
		1.5e-7:       "1.5e-7",
		123456789012: "123456789012",
		math.Inf(1):  "Infinity",
		math.Inf(-1): "-Infinity",
	}
	for in, want := range testCases {
		assert.Equal(t, want, content.FormatNumber(in))
	}
	assert.Equal(t, "NaN", content.FormatNumber(math.NaN()))
	assert.Equal(t, "0", content.FormatNumber(math.Copysign(0, -1)))
}

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "10.00", content.FormatFixed(10))
	assert.Equal(t, "3.14", content.FormatFixed(3.14159))
	assert.Equal(t, "-2.50", content.FormatFixed(-2.5))
	assert.Equal(t, "0.00", content.FormatFixed(math.Copysign(0, -1)))
	assert.Equal(t, "NaN", content.FormatFixed(math.NaN()))
}
