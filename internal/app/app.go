package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/calcform/internal/calculator"
	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/content"
	"github.com/vk/calcform/internal/ctxlog"
	"github.com/vk/calcform/internal/evaluator"
	"github.com/vk/calcform/internal/formula"
	"github.com/vk/calcform/internal/rules"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	formulas *formula.Service
	rules    *rules.Engine
}

// NewApp is the constructor for the main application. Output goes to outW and
// logs go to logW through an isolated logger. The schema is loaded with
// loader, or with the loader matching cfg.SchemaPath when loader is nil.
func NewApp(outW, logW io.Writer, cfg *Config, loader config.Loader) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	if loader == nil {
		l, err := LoaderFor(cfg.SchemaPath)
		if err != nil {
			return nil, err
		}
		loader = l
	}

	model, err := loader.Load(ctx, cfg.SchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	logger.Debug("Schema loaded and translated into unified model.", "formulas", len(model.Formulas), "components", len(model.Components))

	ev, err := evaluator.New(cfg.Engine)
	if err != nil {
		return nil, err
	}
	svc := formula.NewService(ev, logger)

	a := &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		model:    model,
		formulas: svc,
		rules:    rules.NewEngine(svc, content.NewParser(svc)),
	}
	a.logReport(a.Diagnose())
	return a, nil
}

// Model returns the loaded schema.
func (a *App) Model() *config.Model {
	return a.model
}

// NewCalculator starts a fresh, initialized session over the schema.
func (a *App) NewCalculator() *calculator.Calculator {
	calc := calculator.New(a.model, a.formulas, a.rules)
	calc.Initialize()
	return calc
}

// Diagnose reports dependency problems among the schema's formulas.
func (a *App) Diagnose() formula.Report {
	return formula.Diagnose(a.model.Formulas, a.model.VariableNames())
}

func (a *App) logReport(r formula.Report) {
	for _, cycle := range r.Cycles {
		a.logger.Warn("Formulas depend on each other and will evaluate to zero.", "formulas", strings.Join(cycle, ", "))
	}
	for _, name := range r.SelfReferences {
		a.logger.Warn("Formula references itself and will evaluate to zero.", "formula", name)
	}
	for name, unknown := range r.Unknown {
		a.logger.Warn("Formula references undefined names, which default to zero.", "formula", name, "names", strings.Join(unknown, ", "))
	}
	for _, name := range r.Unparsed {
		a.logger.Warn("Formula expression does not parse and will evaluate to zero.", "formula", name)
	}
}
