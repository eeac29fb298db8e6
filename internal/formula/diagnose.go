package formula

import (
	"errors"
	"sort"

	"github.com/vk/calcform/internal/dag"
	"github.com/vk/calcform/internal/refs"
)

// Report describes dependency problems among formulas. It is informational
// only: evaluation still resolves every problem formula to zero.
type Report struct {
	// Cycles lists groups of formulas that depend on each other.
	Cycles [][]string
	// SelfReferences lists formulas whose expression mentions their own name.
	SelfReferences []string
	// Unknown maps a formula name to the names it references that are neither
	// formulas nor known variables.
	Unknown map[string][]string
	// Unparsed lists formulas whose expression is not valid HCL syntax, for
	// which no references could be checked.
	Unparsed []string
}

// Empty reports whether no problem was found.
func (r Report) Empty() bool {
	return len(r.Cycles) == 0 && len(r.SelfReferences) == 0 && len(r.Unknown) == 0 && len(r.Unparsed) == 0
}

// Diagnose builds the formula dependency graph and reports cycles and dangling
// references. knownVariables are the variable names the calculator defines.
func Diagnose(formulas []Formula, knownVariables []string) Report {
	report := Report{Unknown: make(map[string][]string)}

	known := make(map[string]struct{}, len(knownVariables))
	for _, v := range knownVariables {
		known[v] = struct{}{}
	}
	formulaNames := names(formulas)

	g := dag.New()
	for _, f := range formulas {
		g.AddNode(f.Name)
	}

	for _, f := range formulas {
		res := refs.Extract(Sanitize(f.Expression))
		if !res.Parsed {
			report.Unparsed = append(report.Unparsed, f.Name)
			continue
		}
		for _, name := range res.Variables {
			switch {
			case name == f.Name:
				report.SelfReferences = append(report.SelfReferences, f.Name)
			case isFormula(formulaNames, name):
				// Both nodes exist and the names differ, so this cannot fail.
				_ = g.AddEdge(name, f.Name)
			case !isKnown(known, name):
				report.Unknown[f.Name] = append(report.Unknown[f.Name], name)
			}
		}
	}

	var cycleErr *dag.CycleError
	if err := g.DetectCycles(); errors.As(err, &cycleErr) {
		report.Cycles = cycleErr.Cycles
	}
	if len(report.Unknown) == 0 {
		report.Unknown = nil
	}
	sort.Strings(report.SelfReferences)
	return report
}

func isFormula(formulaNames map[string]struct{}, name string) bool {
	_, ok := formulaNames[name]
	return ok
}

func isKnown(known map[string]struct{}, name string) bool {
	_, ok := known[name]
	return ok
}
