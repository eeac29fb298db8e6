package app

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/vk/calcform/internal/calculator"
	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/render"
)

// ErrProblemsFound is returned by Check when the report is not empty.
var ErrProblemsFound = errors.New("schema has formula problems")

// Output formats accepted by Render.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Overrides are variable values applied on top of component defaults.
type Overrides map[string]float64

// CheckboxChange checks or unchecks one option of a checkbox group.
type CheckboxChange struct {
	Component string
	Option    string
	Checked   bool
}

// session creates an initialized calculator with overrides applied.
func (a *App) session(overrides Overrides, boxes []CheckboxChange) (*calculator.Calculator, error) {
	calc := a.NewCalculator()
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		calc.UpdateVariable(name, overrides[name])
	}
	for _, b := range boxes {
		if err := calc.SetCheckbox(b.Component, b.Option, b.Checked); err != nil {
			return nil, err
		}
	}
	a.logger.Debug("Calculator session prepared.", "overrides", len(overrides), "checkboxes", len(boxes))
	return calc, nil
}

// Render renders the schema to the app's output in the given format.
func (a *App) Render(overrides Overrides, boxes []CheckboxChange, format string, color bool) error {
	calc, err := a.session(overrides, boxes)
	if err != nil {
		return err
	}
	view := calc.Render()

	switch format {
	case FormatJSON:
		return render.JSON(a.outW, view)
	case FormatText, "":
		return render.Text(a.outW, view, render.Options{Color: color})
	default:
		return fmt.Errorf("invalid output format %q: must be 'text' or 'json'", format)
	}
}

// Eval prints the value of expression evaluated in a fresh session.
func (a *App) Eval(expression string, overrides Overrides) error {
	calc, err := a.session(overrides, nil)
	if err != nil {
		return err
	}
	value := calc.EvaluateFormula(expression)
	a.logger.Debug("Expression evaluated.", "expression", expression, "value", value)
	_, err = fmt.Fprintln(a.outW, content.FormatNumber(value))
	return err
}

// Check prints the formula report and returns ErrProblemsFound when it is
// not empty.
func (a *App) Check() error {
	r := a.Diagnose()
	if r.Empty() {
		_, err := fmt.Fprintf(a.outW, "OK: %d formulas, no problems found\n", len(a.model.Formulas))
		return err
	}
	writeReport(a.outW, r.Cycles, r.SelfReferences, r.Unknown, r.Unparsed)
	return ErrProblemsFound
}

func writeReport(w io.Writer, cycles [][]string, self []string, unknown map[string][]string, unparsed []string) {
	for _, c := range cycles {
		fmt.Fprintf(w, "cycle: %s\n", strings.Join(c, " -> "))
	}
	for _, name := range self {
		fmt.Fprintf(w, "self-reference: %s\n", name)
	}
	names := make([]string, 0, len(unknown))
	for name := range unknown {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "unknown reference: %s uses %s\n", name, strings.Join(unknown[name], ", "))
	}
	for _, name := range unparsed {
		fmt.Fprintf(w, "unparsed: %s\n", name)
	}
}
