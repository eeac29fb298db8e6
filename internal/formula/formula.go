// Package formula implements scope construction and formula evaluation.
//
// A calculator declares named formulas whose expressions may reference input
// variables and each other, in any order. BuildScope folds every formula into
// a flat name→number scope by fixed-point iteration, and Service evaluates an
// arbitrary expression against that scope. Neither ever fails: expressions
// that cannot be evaluated degrade to zero, which keeps a rendered calculator
// displayable no matter what the schema author wrote.
package formula

// Formula is a named, reusable algebraic expression.
type Formula struct {
	Name       string
	Expression string
}

// Variables maps variable names to their current numeric values. Absent names
// are treated as zero wherever they are referenced.
type Variables map[string]float64

// Clone returns a shallow copy that is safe to mutate. Cloning a nil map
// yields an empty, non-nil map.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for name, value := range v {
		out[name] = value
	}
	return out
}

// Find returns the first formula with the given name.
func Find(formulas []Formula, name string) (Formula, bool) {
	for _, f := range formulas {
		if f.Name == name {
			return f, true
		}
	}
	return Formula{}, false
}

func names(formulas []Formula) map[string]struct{} {
	out := make(map[string]struct{}, len(formulas))
	for _, f := range formulas {
		out[f.Name] = struct{}{}
	}
	return out
}
