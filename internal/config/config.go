// Package config loads the TOML mapping configuration (spec §6.1) from
// disk into a mapping.SourceConfig, following the teacher's atomic-write
// and stat-before-decode conventions.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/prime-run/evremap/internal/mapping"
)

// DefaultPath returns the default config file path (~/.config/evremap/config.toml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "evremap", "config.toml")
}

// Load decodes the TOML mapping configuration at path. There is no
// implicit default: a remap session is meaningless without a config, so
// a missing file is a config error (spec §6.2 exit codes), unlike the
// teacher's dictation-app config which falls back to defaults.
func Load(path string) (*mapping.SourceConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	var src mapping.SourceConfig
	if _, err := toml.DecodeFile(path, &src); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &src, nil
}

// Save writes src as TOML to path, creating parent directories if
// needed. The write is atomic: data lands in a temporary file first and
// is renamed into place, so a crash mid-write cannot corrupt an existing
// config (teacher's internal/config.Save pattern).
func Save(path string, src *mapping.SourceConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".evremap-config-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(src); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}
