package formula

import (
	"fmt"
	"log/slog"

	"github.com/vk/calcform/internal/evaluator"
	"github.com/vk/calcform/internal/refs"
)

// Service evaluates expressions against variables and formulas. Its methods
// never fail; failures are logged at debug level and surface as 0.
type Service struct {
	evaluator evaluator.Evaluator
	logger    *slog.Logger
}

// NewService creates a Service backed by the given evaluator. A nil logger
// discards output.
func NewService(ev evaluator.Evaluator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{evaluator: ev, logger: logger}
}

// Evaluate returns the value of expression given the current variables and the
// calculator's formulas.
//
// The expression is sanitized, every identifier it reads that is neither a
// variable nor a formula is seeded with 0 (called names are functions and are
// left alone), formulas are folded into the scope,
// and the expression is evaluated against the result.
func (s *Service) Evaluate(expression string, variables Variables, formulas []Formula) (result float64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("Formula evaluation panicked, returning zero.", "expression", expression, "panic", fmt.Sprint(r))
			result = 0
		}
	}()

	sanitized := Sanitize(expression)

	working := variables.Clone()
	formulaNames := names(formulas)
	for _, id := range refs.Operands(sanitized) {
		if _, ok := working[id]; ok {
			continue
		}
		// Formula names are left to the scope builder, which always assigns them.
		if _, ok := formulaNames[id]; ok {
			continue
		}
		working[id] = 0
	}

	res := Resolve(s.evaluator, working, formulas)
	if len(res.Unresolved) > 0 {
		s.logger.Debug("Unresolvable formulas defaulted to zero.", "formulas", res.Unresolved, "passes", res.Passes)
	}

	value, err := s.evaluator.Evaluate(sanitized, res.Scope)
	if err != nil {
		s.logger.Debug("Formula evaluation failed, returning zero.", "expression", expression, "error", err)
		return 0
	}
	return value
}
