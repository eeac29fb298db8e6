// Package jsonschema loads calculator schemas in the widget's native JSON
// shape. A file may hold the schema object itself or an envelope whose
// "schema" member is either that object or a JSON-encoded string of it, as
// found in an embed's data-schema attribute.
package jsonschema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tidwall/gjson"
	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/ctxlog"
	"github.com/vk/calcform/internal/fsutil"
)

// ErrInvalidJSON is returned for files that are not well-formed JSON.
var ErrInvalidJSON = errors.New("invalid JSON")

// Loader is the JSON implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new JSON schema loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .json file found under paths and merges them, in order,
// into a single model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("JSON loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(paths, ".json")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .json schema files found in %v", paths)
	}

	model := &config.Model{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON file %s: %w", file, err)
		}
		m, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("in JSON file %s: %w", file, err)
		}
		model.Merge(m)
	}

	if err := model.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("JSON loading complete.", "formulas", len(model.Formulas), "components", len(model.Components), "sections", len(model.Layout))
	return model, nil
}

// Parse decodes a single schema document, unwrapping the envelope if present.
func Parse(data []byte) (*config.Model, error) {
	raw, err := Unwrap(data)
	if err != nil {
		return nil, err
	}
	var doc config.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return doc.Model()
}

// Unwrap returns the raw schema object held by data.
func Unwrap(data []byte) ([]byte, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("schema must be a JSON object, got %s", root.Type)
	}

	inner := root.Get("schema")
	switch {
	case !inner.Exists():
		return data, nil
	case inner.IsObject():
		return []byte(inner.Raw), nil
	case inner.Type == gjson.String:
		if !gjson.Valid(inner.Str) {
			return nil, fmt.Errorf("embedded schema string: %w", ErrInvalidJSON)
		}
		if !gjson.Parse(inner.Str).IsObject() {
			return nil, fmt.Errorf("embedded schema must be a JSON object")
		}
		return []byte(inner.Str), nil
	default:
		return nil, fmt.Errorf("schema member must be an object or a string, got %s", inner.Type)
	}
}
