// Package config defines the format-agnostic calculator schema along with the
// Loader interface for reading it from various sources.
//
// The `config.Model` is the single source of truth for the `calculator`
// package. Concrete loaders, such as for HCL, JSON and TOML, are provided in
// separate packages and share the canonicalization in this one, so legacy
// schema shapes are resolved exactly once, at load time.
package config
