package config

import (
	"context"
	"errors"
)

var (
	// ErrDuplicateFormula is returned when two formulas share a name.
	ErrDuplicateFormula = errors.New("duplicate formula name")
	// ErrDuplicateComponent is returned when two components share an id.
	ErrDuplicateComponent = errors.New("duplicate component id")
)

// Loader is the interface for a format-specific schema loader.
type Loader interface {
	// Load reads every schema file found under paths, translates them into
	// the format-agnostic model and merges them in order.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
