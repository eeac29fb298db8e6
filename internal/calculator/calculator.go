package calculator

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/formula"
	"github.com/vk/calcform/internal/inmemorystore"
	"github.com/vk/calcform/internal/rules"
)

var (
	ErrUnknownComponent = errors.New("unknown component")
	ErrNotCheckboxes    = errors.New("component is not a checkbox group")
	ErrUnknownOption    = errors.New("unknown checkbox option")
)

// Calculator is a live session over a schema.
type Calculator struct {
	model    *config.Model
	formulas *formula.Service
	rules    *rules.Engine
	content  *content.Parser
	store    *inmemorystore.Store

	// mu serializes checkbox updates, which read other options before
	// writing the aggregated sum.
	mu sync.Mutex
}

// New creates a session with no variables set. Call Initialize to seed
// component defaults.
func New(model *config.Model, svc *formula.Service, engine *rules.Engine) *Calculator {
	return &Calculator{
		model:    model,
		formulas: svc,
		rules:    engine,
		content:  content.NewParser(svc),
		store:    inmemorystore.New(),
	}
}

// Model returns the schema the session runs.
func (c *Calculator) Model() *config.Model {
	return c.model
}

// UpdateVariable sets a variable. Names need not belong to a component.
func (c *Calculator) UpdateVariable(name string, value float64) {
	c.store.Set(name, value)
}

// Variables returns a snapshot of every variable.
func (c *Calculator) Variables() formula.Variables {
	return c.store.Snapshot()
}

// Initialize seeds variables that have not been set yet. A component's
// variable gets its default value. Every checkbox option's variable gets the
// option default, and a checkbox group in normal mode gets its aggregated
// variable set to the sum of its options.
func (c *Calculator) Initialize() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, comp := range c.model.Components {
		if comp.VariableName != "" {
			c.store.SetIfAbsent(comp.VariableName, comp.DefaultValue)
		}
		if comp.Type != config.Checkboxes {
			continue
		}
		for _, opt := range comp.CheckboxOptions {
			c.store.SetIfAbsent(opt.VariableName, opt.DefaultValue)
		}
		if comp.Mode == config.ModeNormal && comp.AggregatedVariableName != "" {
			if _, ok := c.store.Get(comp.AggregatedVariableName); !ok {
				c.store.Set(comp.AggregatedVariableName, c.sum(comp, "", 0))
			}
		}
	}
}

// SetCheckbox checks or unchecks one option of a checkbox group and, in
// normal mode, recomputes the group's aggregated variable.
func (c *Calculator) SetCheckbox(componentID, optionID string, checked bool) error {
	comp, ok := c.model.Component(componentID)
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrUnknownComponent, componentID)
	}
	if comp.Type != config.Checkboxes {
		return fmt.Errorf("%w: '%s' is %s", ErrNotCheckboxes, componentID, comp.Type)
	}

	var opt *config.CheckboxOption
	for i := range comp.CheckboxOptions {
		if comp.CheckboxOptions[i].ID == optionID {
			opt = &comp.CheckboxOptions[i]
			break
		}
	}
	if opt == nil {
		return fmt.Errorf("%w: '%s' in component '%s'", ErrUnknownOption, optionID, componentID)
	}

	value := opt.UncheckedValue
	if checked {
		value = opt.CheckedValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store.Set(opt.VariableName, value)
	if comp.Mode == config.ModeNormal && comp.AggregatedVariableName != "" {
		c.store.Set(comp.AggregatedVariableName, c.sum(comp, opt.VariableName, value))
	}
	return nil
}

// sum adds up the options of a checkbox group, using override for the
// option whose variable is overrideVar.
func (c *Calculator) sum(comp *config.Component, overrideVar string, override float64) float64 {
	var total float64
	for _, opt := range comp.CheckboxOptions {
		if opt.VariableName == overrideVar {
			total += override
			continue
		}
		total += c.optionValue(opt)
	}
	return total
}

func (c *Calculator) optionValue(opt config.CheckboxOption) float64 {
	if v, ok := c.store.Get(opt.VariableName); ok {
		return v
	}
	return opt.DefaultValue
}

// EvaluateFormula evaluates an expression against the current variables and
// the schema's formulas.
func (c *Calculator) EvaluateFormula(expression string) float64 {
	return c.formulas.Evaluate(expression, c.store.Snapshot(), c.model.Formulas)
}

// ParseContent renders template text against the current variables.
func (c *Calculator) ParseContent(text string) string {
	return c.content.Parse(text, c.store.Snapshot(), c.model.Formulas)
}
