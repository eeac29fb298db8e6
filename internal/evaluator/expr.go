package evaluator

import (
	"fmt"

	"github.com/expr-lang/expr"
)

// Expr evaluates expressions with expr-lang. Unlike the HCL engine it
// understands `^` for exponentiation and ships its own math builtins.
type Expr struct{}

// NewExpr creates an expr-lang backed evaluator.
func NewExpr() *Expr {
	return &Expr{}
}

// Evaluate implements Evaluator. The program is compiled against the scope on
// every call because the set of names changes from call to call.
func (e *Expr) Evaluate(expression string, scope map[string]float64) (float64, error) {
	env := make(map[string]any, len(scope))
	for name, v := range scope {
		env[name] = v
	}

	program, err := expr.Compile(expression, expr.Env(env))
	if err != nil {
		return 0, fmt.Errorf("failed to compile expression: %w", err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate expression: %w", err)
	}

	switch v := out.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: got %T", ErrNotNumeric, out)
	}
}
