package rules

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/formula"
)

// Env is the state a line is evaluated against.
type Env struct {
	Variables formula.Variables
	Formulas  []formula.Formula
}

// Engine evaluates conditions and lines.
type Engine struct {
	formulas *formula.Service
	content  *content.Parser
}

// NewEngine creates an Engine. Formula targets are evaluated with svc and
// matched messages are rendered with parser.
func NewEngine(svc *formula.Service, parser *content.Parser) *Engine {
	return &Engine{formulas: svc, content: parser}
}

// EvaluateCondition reports whether the condition holds. A variable target
// defaults to 0 when unset; a formula target that does not exist, or a
// condition without a target, never holds.
func (e *Engine) EvaluateCondition(env Env, c Condition) bool {
	var target float64
	switch c.Target.Kind {
	case TargetVariable:
		target = env.Variables[c.Target.Name]
	case TargetFormula:
		f, ok := formula.Find(env.Formulas, c.Target.Name)
		if !ok {
			return false
		}
		target = e.formulas.Evaluate(f.Expression, env.Variables, env.Formulas)
	default:
		return false
	}
	return compare(c.Operator, target, ParseFloat(c.Value))
}

// EvaluateLine returns the first block of the line that matches, with its
// message rendered. An else block always matches. The boolean is false when
// nothing matched, in which case nothing should be rendered.
func (e *Engine) EvaluateLine(env Env, line Line) (Result, bool) {
	for _, b := range line.Blocks {
		if b.Kind == Else || e.matches(env, b) {
			return Result{
				Message: e.content.Parse(b.Message, env.Variables, env.Formulas),
				Style:   b.Style,
			}, true
		}
	}
	return Result{}, false
}

func (e *Engine) matches(env Env, b Block) bool {
	if len(b.Conditions) == 0 {
		return false
	}
	if b.Logic == Or {
		for _, c := range b.Conditions {
			if e.EvaluateCondition(env, c) {
				return true
			}
		}
		return false
	}
	for _, c := range b.Conditions {
		if !e.EvaluateCondition(env, c) {
			return false
		}
	}
	return true
}

// compare applies op. Any comparison involving NaN is false, not_equal
// included.
func compare(op Operator, a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		// Deliberately differs from JS, where NaN != x is true.
		return false
	}
	switch op {
	case GreaterThan:
		return a > b
	case LessThan:
		return a < b
	case GreaterEqual:
		return a >= b
	case LessEqual:
		return a <= b
	case Equal:
		return a == b
	case NotEqual:
		return a != b
	default:
		return false
	}
}

var floatPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseFloat reads the longest numeric prefix of s after leading whitespace,
// like a browser's parseFloat. It returns NaN when there is none.
func ParseFloat(s string) float64 {
	m := floatPrefix.FindString(strings.TrimLeftFunc(s, unicode.IsSpace))
	if m == "" {
		return math.NaN()
	}
	if strings.HasSuffix(m, "Infinity") {
		if m[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
