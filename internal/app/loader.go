package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/calcform/internal/config"
	"github.com/vk/calcform/internal/hcl"
	"github.com/vk/calcform/internal/jsonschema"
	"github.com/vk/calcform/internal/tomlschema"
)

// LoaderFor picks the schema loader for path by its extension. Directories
// are read as HCL.
func LoaderFor(path string) (config.Loader, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return hcl.NewLoader(), nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		return hcl.NewLoader(), nil
	case ".json":
		return jsonschema.NewLoader(), nil
	case ".toml":
		return tomlschema.NewLoader(), nil
	default:
		return nil, fmt.Errorf("unsupported schema file %s: expected .hcl, .json or .toml", path)
	}
}
