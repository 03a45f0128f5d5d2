// Package democonfig loads configuration for the slotmapctl REPL.
//
// This is an outer-layer, CLI-only concern: the slotmap library itself
// takes no configuration beyond an optional capacity hint passed
// directly to slotmap.WithCapacity. Precedence, low to high:
// defaults -> global config file -> CLI flags.
package democonfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds slotmapctl's own settings; it has nothing to do with the
// slotmap.Options a library caller would construct.
type Config struct {
	DefaultCapacity int    `json:"default_capacity"` //nolint:tagliatelle // snake_case for config file
	DebugTag        bool   `json:"debug_tag"`         //nolint:tagliatelle
	HistoryPath     string `json:"history_path,omitempty"`
}

// FileName is the default config file name under the user's config dir.
const FileName = "config.jsonc"

// Default returns slotmapctl's built-in defaults.
func Default() Config {
	return Config{
		DefaultCapacity: 0,
		DebugTag:        true,
	}
}

var errConfigRead = fmt.Errorf("slotmapctl: cannot read config file")

// Load reads defaults, then overlays the global config file if present.
// env mirrors os.Environ(); passed explicitly so tests don't depend on
// process-wide environment state.
func Load(env []string) (Config, string, error) {
	cfg := Default()

	path := globalConfigPath(env)
	if path == "" {
		return cfg, "", nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from trusted env/home lookup
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, "", nil
		}

		return Config{}, "", fmt.Errorf("%w: %s: %w", errConfigRead, path, err)
	}

	fileCfg, err := parse(data)
	if err != nil {
		return Config{}, "", fmt.Errorf("%s: %w", path, err)
	}

	return merge(cfg, fileCfg), path, nil
}

func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "slotmapctl", FileName)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "slotmapctl", FileName)
}

// parse tolerates JWCC (JSON with comments and trailing commas), the
// same relaxed format the teacher's own config loader accepts.
func parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	merged := base

	if overlay.DefaultCapacity != 0 {
		merged.DefaultCapacity = overlay.DefaultCapacity
	}

	merged.DebugTag = overlay.DebugTag

	if overlay.HistoryPath != "" {
		merged.HistoryPath = overlay.HistoryPath
	}

	return merged
}
