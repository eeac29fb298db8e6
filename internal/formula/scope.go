package formula

import "github.com/vk/calcform/internal/evaluator"

// Resolution is the outcome of folding formulas into a scope.
type Resolution struct {
	// Scope holds the input variables plus every formula's value.
	Scope Variables
	// Unresolved lists, in declaration order, the formulas that could not be
	// evaluated and were forced to zero.
	Unresolved []string
	// Passes is the number of passes made over the formula list.
	Passes int
}

// BuildScope returns the variables merged with the resolved value of every
// formula. See Resolve.
func BuildScope(ev evaluator.Evaluator, variables Variables, formulas []Formula) Variables {
	return Resolve(ev, variables, formulas).Scope
}

// Resolve evaluates formulas against the variables by fixed-point iteration.
//
// Each pass attempts every unresolved formula in declaration order; a success
// writes the value into the scope so later attempts can use it. Because a
// formula that depends on one declared after it simply resolves on a later
// pass, declaration order does not need to follow dependency order.
//
// At most 2×len(formulas) passes are made. A pass that resolves nothing ends
// the loop, and every formula still unresolved, cycles included, is set to 0.
// A formula's value overwrites a variable of the same name.
func Resolve(ev evaluator.Evaluator, variables Variables, formulas []Formula) Resolution {
	scope := variables.Clone()
	resolved := make(map[string]bool, len(formulas))
	maxIterations := 2 * len(formulas)

	passes := 0
	for len(resolved) < len(formulas) && passes < maxIterations {
		passes++
		progress := false

		for _, f := range formulas {
			if resolved[f.Name] {
				continue
			}
			value, err := ev.Evaluate(Sanitize(f.Expression), scope)
			if err != nil {
				// Probably a dependency that is not ready yet; retry next pass.
				continue
			}
			scope[f.Name] = value
			resolved[f.Name] = true
			progress = true
		}

		if !progress {
			break
		}
	}

	var unresolved []string
	for _, f := range formulas {
		if resolved[f.Name] {
			continue
		}
		scope[f.Name] = 0
		resolved[f.Name] = true
		unresolved = append(unresolved, f.Name)
	}

	return Resolution{Scope: scope, Unresolved: unresolved, Passes: passes}
}
