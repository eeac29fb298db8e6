package evaluator

import (
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// HCL evaluates expressions written in the HCL native expression syntax.
// Scope entries become root variables of the evaluation context, so a formula
// such as `price * (1 + vat)` resolves `price` and `vat` directly.
type HCL struct {
	functions map[string]function.Function
}

// NewHCL creates an HCL-backed evaluator with the numeric cty functions
// registered.
func NewHCL() *HCL {
	return &HCL{
		functions: map[string]function.Function{
			"abs":    stdlib.AbsoluteFunc,
			"ceil":   stdlib.CeilFunc,
			"floor":  stdlib.FloorFunc,
			"log":    stdlib.LogFunc,
			"max":    stdlib.MaxFunc,
			"min":    stdlib.MinFunc,
			"pow":    stdlib.PowFunc,
			"signum": stdlib.SignumFunc,
		},
	}
}

// Evaluate implements Evaluator.
func (h *HCL) Evaluate(expression string, scope map[string]float64) (float64, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(SeparateMinus(expression)), "expression", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to parse expression: %w", diags)
	}

	vars := make(map[string]cty.Value, len(scope))
	for name, v := range scope {
		// cty numbers cannot hold NaN; leaving the name undefined makes any
		// reference to it fail like an unknown identifier.
		if math.IsNaN(v) {
			continue
		}
		vars[name] = cty.NumberFloatVal(v)
	}

	val, diags := expr.Value(&hcl.EvalContext{
		Variables: vars,
		Functions: h.functions,
	})
	if diags.HasErrors() {
		return 0, fmt.Errorf("failed to evaluate expression: %w", diags)
	}
	return ctyToFloat(val)
}

// SeparateMinus puts spaces around every '-' that directly follows an
// identifier. HCL allows '-' inside identifiers, so without it `price-discount`
// reads as a single unknown name instead of a subtraction. Exponents such as
// `1e-5` are left alone because their run starts with a digit.
func SeparateMinus(expression string) string {
	if !strings.Contains(expression, "-") {
		return expression
	}

	var b strings.Builder
	b.Grow(len(expression) + 8)
	runStart := -1
	for i := 0; i < len(expression); i++ {
		c := expression[i]
		if c == '-' && runStart >= 0 && isIdentStart(expression[runStart]) {
			b.WriteString(" - ")
			runStart = -1
			continue
		}
		switch {
		case !isIdentChar(c):
			runStart = -1
		case runStart < 0:
			runStart = i
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// ctyToFloat converts a fully known cty number into a float64.
func ctyToFloat(val cty.Value) (float64, error) {
	if val.IsNull() || !val.IsKnown() {
		return 0, ErrNotNumeric
	}
	if !val.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("%w: got %s", ErrNotNumeric, val.Type().FriendlyName())
	}
	f, _ := val.AsBigFloat().Float64()
	return f, nil
}
