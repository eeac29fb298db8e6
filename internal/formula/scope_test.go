package formula_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/calcform/internal/evaluator"
	"github.com/vk/calcform/internal/formula"
)

func TestBuildScope_ForwardReference(t *testing.T) {
	formulas := []formula.Formula{
		{Name: "b", Expression: "a+1"},
		{Name: "a", Expression: "5"},
	}

	res := formula.Resolve(evaluator.NewHCL(), formula.Variables{}, formulas)

	assert.Equal(t, formula.Variables{"a": 5, "b": 6}, res.Scope)
	assert.Empty(t, res.Unresolved)
	assert.Equal(t, 2, res.Passes)
}

func TestBuildScope_DeclarationOrderIndependent(t *testing.T) {
	vars := formula.Variables{"base": 10}
	ordered := []formula.Formula{
		{Name: "a", Expression: "base * 2"},
		{Name: "b", Expression: "a + 1"},
		{Name: "c", Expression: "b * a"},
		{Name: "d", Expression: "c - base"},
	}
	reversed := []formula.Formula{ordered[3], ordered[2], ordered[1], ordered[0]}

	want := formula.Variables{"base": 10, "a": 20, "b": 21, "c": 420, "d": 410}
	for _, ev := range []evaluator.Evaluator{evaluator.NewHCL(), evaluator.NewExpr()} {
		assert.Equal(t, want, formula.BuildScope(ev, vars, ordered))
		assert.Equal(t, want, formula.BuildScope(ev, vars, reversed))
	}

	res := formula.Resolve(evaluator.NewHCL(), vars, reversed)
	assert.Equal(t, 4, res.Passes)
}

func TestBuildScope_CycleDegradesToZero(t *testing.T) {
	formulas := []formula.Formula{
		{Name: "a", Expression: "b+1"},
		{Name: "b", Expression: "a+1"},
	}

	res := formula.Resolve(evaluator.NewHCL(), nil, formulas)

	assert.Equal(t, formula.Variables{"a": 0, "b": 0}, res.Scope)
	assert.Equal(t, []string{"a", "b"}, res.Unresolved)
	assert.LessOrEqual(t, res.Passes, 4)
}

func TestBuildScope_PartialCycle(t *testing.T) {
	formulas := []formula.Formula{
		{Name: "ok", Expression: "x * 3"},
		{Name: "loop", Expression: "loop + 1"},
		{Name: "uses_loop", Expression: "loop + ok"},
	}

	scope := formula.BuildScope(evaluator.NewHCL(), formula.Variables{"x": 2}, formulas)

	assert.Equal(t, 6.0, scope["ok"])
	assert.Equal(t, 0.0, scope["loop"])
	assert.Equal(t, 0.0, scope["uses_loop"])
}

func TestBuildScope_FormulaOverridesVariable(t *testing.T) {
	formulas := []formula.Formula{{Name: "total", Expression: "price * 2"}}

	scope := formula.BuildScope(evaluator.NewHCL(), formula.Variables{"price": 4, "total": 1}, formulas)

	assert.Equal(t, 8.0, scope["total"])
}

func TestBuildScope_SanitizesFormulaExpressions(t *testing.T) {
	formulas := []formula.Formula{{Name: "sum", Expression: "a\u00A0+\u3000b"}}

	scope := formula.BuildScope(evaluator.NewHCL(), formula.Variables{"a": 1, "b": 2}, formulas)

	assert.Equal(t, 3.0, scope["sum"])
}

func TestBuildScope_Idempotent(t *testing.T) {
	vars := formula.Variables{"x": 3}
	formulas := []formula.Formula{
		{Name: "y", Expression: "z + x"},
		{Name: "z", Expression: "x * x"},
	}
	ev := evaluator.NewHCL()

	first := formula.BuildScope(ev, vars, formulas)
	second := formula.BuildScope(ev, vars, formulas)

	require.Equal(t, first, second)
	assert.Equal(t, formula.Variables{"x": 3}, vars, "input variables must not be mutated")
}

func TestBuildScope_NoFormulas(t *testing.T) {
	vars := formula.Variables{"x": 1}

	scope := formula.BuildScope(evaluator.NewHCL(), vars, nil)
	scope["x"] = 99

	assert.Equal(t, 1.0, vars["x"])
	assert.NotNil(t, formula.BuildScope(evaluator.NewHCL(), nil, nil))
}

func TestBuildScope_UnspacedSubtraction(t *testing.T) {
	vars := formula.Variables{"price": 10, "discount": 3}
	formulas := []formula.Formula{{Name: "net", Expression: "price-discount"}}

	for _, ev := range []evaluator.Evaluator{evaluator.NewHCL(), evaluator.NewExpr()} {
		scope := formula.BuildScope(ev, vars, formulas)
		assert.Equal(t, 7.0, scope["net"])
	}
}
