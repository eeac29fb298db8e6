package app

import (
	"errors"
	"strings"

	"github.com/vk/calcform/internal/evaluator"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	SchemaPath string // .hcl, .json or .toml file, or a directory of .hcl files
	Engine     string

	LogFormat string
	LogLevel  string
	Addr      string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.SchemaPath == "" {
		return nil, errors.New("SchemaPath is a required configuration field and cannot be empty")
	}

	cfg.Engine = strings.ToLower(cfg.Engine)
	if cfg.Engine == "" {
		cfg.Engine = string(evaluator.EngineHCL)
	}
	if _, err := evaluator.New(cfg.Engine); err != nil {
		return nil, err
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if err := checkLogging(cfg.LogLevel, cfg.LogFormat); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return &cfg, nil
}
