// Package evaluator defines the expression evaluation capability consumed by
// the formula core, together with the engines that implement it on top of
// third-party expression languages.
//
// The core never depends on a concrete grammar. It hands an engine an
// expression string and a flat scope of numbers, and expects either a number
// or an error. Engines must fail cleanly on unknown identifiers and malformed
// syntax; they are not required to support comparisons.
package evaluator

import (
	"errors"
	"fmt"
	"strings"
)

// Evaluator parses and evaluates an algebraic expression against a scope.
type Evaluator interface {
	Evaluate(expression string, scope map[string]float64) (float64, error)
}

// Engine names a concrete expression language.
type Engine string

const (
	// EngineHCL evaluates expressions with the HCL native syntax.
	EngineHCL Engine = "hcl"
	// EngineExpr evaluates expressions with expr-lang.
	EngineExpr Engine = "expr"
)

// ErrNotNumeric is returned when an expression evaluates to something other
// than a known number.
var ErrNotNumeric = errors.New("expression did not evaluate to a number")

// Engines lists the supported engine names in display order.
func Engines() []Engine {
	return []Engine{EngineHCL, EngineExpr}
}

// New returns the evaluator for the named engine. An empty name selects HCL.
func New(name string) (Evaluator, error) {
	switch Engine(strings.ToLower(strings.TrimSpace(name))) {
	case EngineHCL, "":
		return NewHCL(), nil
	case EngineExpr:
		return NewExpr(), nil
	default:
		return nil, fmt.Errorf("unknown expression engine %q: must be 'hcl' or 'expr'", name)
	}
}
