// Package tomlschema loads calculator schemas written as TOML. The document
// uses the same keys as the widget's JSON shape, with formulas, components
// and layout sections as arrays of tables.
package tomlschema

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/ctxlog"
	"github.com/vk/calcform/internal/fsutil"
)

// Loader is the TOML implementation of the config.Loader interface.
type Loader struct{}

func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .toml file found under paths and merges them, in order,
// into a single model. Unknown keys are reported as errors.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("TOML loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(paths, ".toml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .toml schema files found in %v", paths)
	}

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read TOML file %s: %w", file, err)
		}

		var doc config.Document
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode TOML file %s: %w", file, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys in TOML file %s: %v", file, undecoded)
		}

		m, err := doc.Model()
		if err != nil {
			return nil, fmt.Errorf("in TOML file %s: %w", file, err)
		}
		model.Merge(m)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("TOML loading complete.", "formulas", len(model.Formulas), "components", len(model.Components), "sections", len(model.Layout))
	return model, nil
}
