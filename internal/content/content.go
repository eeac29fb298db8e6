// Package content substitutes live values into free-form result text.
//
// Two placeholder forms are recognised:
//
//	{name}          the current value of variable name
//	{formula:name}  the value of formula name, with two decimals
//
// A placeholder that cannot be resolved is left in the text untouched, so a
// reader can tell "not known yet" apart from zero.
package content

import (
	"regexp"
	"strings"

	"github.com/vk/calcform/internal/formula"
)

var (
	variablePlaceholder = regexp.MustCompile(`\{[a-zA-Z_][a-zA-Z0-9_]*\}`)
	formulaPlaceholder  = regexp.MustCompile(`\{formula:[^}]+\}`)
)

const formulaPrefix = "{formula:"

// Parser renders template text against variables and formulas.
type Parser struct {
	formulas *formula.Service
}

// NewParser creates a Parser that evaluates formula placeholders with svc.
func NewParser(svc *formula.Service) *Parser {
	return &Parser{formulas: svc}
}

// Parse replaces variable placeholders first and formula placeholders second,
// on the output of the first pass. Empty text yields an empty string.
func (p *Parser) Parse(text string, variables formula.Variables, formulas []formula.Formula) string {
	if text == "" {
		return ""
	}

	parsed := variablePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := variables[name]
		if !ok {
			return match
		}
		return FormatNumber(value)
	})

	return formulaPlaceholder.ReplaceAllStringFunc(parsed, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, formulaPrefix), "}")
		f, ok := formula.Find(formulas, name)
		if !ok {
			return match
		}
		return FormatFixed(p.formulas.Evaluate(f.Expression, variables, formulas))
	})
}
