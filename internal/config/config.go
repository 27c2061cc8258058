// Package config loads the optional phpls.toml found above the
// workspace root. Absent file means defaults; a present but malformed
// file is an error the CLI surfaces.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the decoded phpls.toml.
type Config struct {
	LSP  LSPConfig  `toml:"lsp"`
	Scan ScanConfig `toml:"scan"`
}

// LSPConfig tunes the language server.
type LSPConfig struct {
	// NestedSymbols asks for hierarchical outlines when the client
	// supports them. Defaults to true.
	NestedSymbols *bool `toml:"nested_symbols"`
	// Trace enables debug-level operator logging.
	Trace bool `toml:"trace"`
}

// ScanConfig tunes workspace scanning.
type ScanConfig struct {
	// Exclude lists directory names skipped in addition to the
	// defaults (vendor, node_modules, .git).
	Exclude []string `toml:"exclude"`
}

// NestedSymbols resolves the pointer-with-default.
func (c *Config) NestedSymbols() bool {
	if c.LSP.NestedSymbols == nil {
		return true
	}
	return *c.LSP.NestedSymbols
}

// Default returns the configuration used when no phpls.toml exists.
func Default() *Config {
	return &Config{}
}

func find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "phpls.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the nearest phpls.toml above startDir. The
// returned path is empty when defaults are in effect.
func Load(startDir string) (*Config, string, error) {
	path, ok, err := find(startDir)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return Default(), "", nil
	}
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, path, fmt.Errorf("failed to decode %q: %w", path, err)
	}
	return &cfg, path, nil
}
