// Package project persists deck configuration as TOML.
package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/piwi3910/SlideStack/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.slidestack/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slidestack")
}

// DefaultConfigPath returns the default path for the deck config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.toml")
}

// LoadResult is a decoded config plus keys the file set that SlideStack does
// not know about.
type LoadResult struct {
	Config    model.DeckConfig
	Undecoded []string
	Found     bool // false when defaults were used because the file is missing
}

// LoadConfig reads a deck config from path. Sections absent from the file
// keep their defaults; a missing file yields DefaultDeckConfig. The result
// is validated.
func LoadConfig(path string) (LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return LoadResult{Config: model.DefaultDeckConfig()}, nil
		}
		return LoadResult{}, fmt.Errorf("failed to read config: %w", err)
	}
	return DecodeConfig(data)
}

// DecodeConfig parses TOML config data over the defaults.
func DecodeConfig(data []byte) (LoadResult, error) {
	cfg := model.DefaultDeckConfig()
	// An explicit [[fields]] list replaces the default one instead of
	// merging into it element by element.
	defaults := cfg.Fields
	cfg.Fields = nil

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if !md.IsDefined("fields") {
		cfg.Fields = defaults
	}
	if err := cfg.Validate(); err != nil {
		return LoadResult{}, err
	}

	result := LoadResult{Config: cfg, Found: true}
	for _, key := range md.Undecoded() {
		result.Undecoded = append(result.Undecoded, key.String())
	}
	return result, nil
}

// EncodeConfig renders cfg as TOML.
func EncodeConfig(cfg model.DeckConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveConfig writes cfg to path as TOML.
// It creates any missing parent directories automatically.
func SaveConfig(path string, cfg model.DeckConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := EncodeConfig(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
