// Package refs extracts the names an expression refers to.
package refs

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/calcform/internal/evaluator"
)

// identifierPattern matches bare identifiers the way formula authors write
// them. It is deliberately loose: function names and keywords match too.
var identifierPattern = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)

// Identifiers returns every identifier-shaped token in the expression, in
// order of first appearance and without duplicates.
func Identifiers(expression string) []string {
	matches := identifierPattern.FindAllString(expression, -1)
	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// Operands returns the identifiers of Identifiers that appear at least once
// without a call. `max` in `max(a, 2)` is a function, not a value.
func Operands(expression string) []string {
	locs := identifierPattern.FindAllStringIndex(expression, -1)
	seen := make(map[string]struct{}, len(locs))
	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		name := expression[loc[0]:loc[1]]
		if _, ok := seen[name]; ok || isCalled(expression[loc[1]:]) {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

func isCalled(rest string) bool {
	return strings.HasPrefix(strings.TrimLeft(rest, " \t"), "(")
}

// Result holds the names found in a single expression.
type Result struct {
	// Variables are the root names the expression reads, sorted.
	Variables []string
	// Functions are the names of called functions, sorted.
	Functions []string
	// Parsed is false when the expression is not valid HCL and Variables was
	// produced by the identifier scan instead.
	Parsed bool
}

// Extract parses the expression with the HCL native syntax and collects the
// variables and functions it uses. When parsing fails it falls back to the
// identifier scan so callers still get a best-effort answer.
func Extract(expression string) Result {
	expr, diags := hclsyntax.ParseExpression([]byte(evaluator.SeparateMinus(expression)), "expression", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		names := Identifiers(expression)
		sort.Strings(names)
		return Result{Variables: names}
	}

	variables := make(map[string]struct{})
	// Use the built-in Variables() method for robust variable collection.
	for _, traversal := range expr.Variables() {
		variables[traversal.RootName()] = struct{}{}
	}

	// Walk the syntax tree to find what Variables() doesn't give us: function calls.
	functions := make(map[string]struct{})
	walkForFunctions(expr, functions)

	return Result{
		Variables: sortedKeys(variables),
		Functions: sortedKeys(functions),
		Parsed:    true,
	}
}

// walkForFunctions recursively walks the AST, looking only for function calls.
func walkForFunctions(expr hclsyntax.Expression, functions map[string]struct{}) {
	if expr == nil {
		return
	}
	switch e := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		functions[e.Name] = struct{}{}
		for _, arg := range e.Args {
			walkForFunctions(arg, functions)
		}
	case *hclsyntax.BinaryOpExpr:
		walkForFunctions(e.LHS, functions)
		walkForFunctions(e.RHS, functions)
	case *hclsyntax.ConditionalExpr:
		walkForFunctions(e.Condition, functions)
		walkForFunctions(e.TrueResult, functions)
		walkForFunctions(e.FalseResult, functions)
	case *hclsyntax.UnaryOpExpr:
		walkForFunctions(e.Val, functions)
	case *hclsyntax.TupleConsExpr:
		for _, item := range e.Exprs {
			walkForFunctions(item, functions)
		}
	case *hclsyntax.IndexExpr:
		walkForFunctions(e.Collection, functions)
		walkForFunctions(e.Key, functions)
	case *hclsyntax.ParenthesesExpr:
		walkForFunctions(e.Expression, functions)
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
