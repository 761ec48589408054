package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded regen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of regen.toml. Every key is optional.
type Config struct {
	Runtime RuntimeConfig `toml:"runtime"`
	Lower   LowerConfig   `toml:"lower"`
}

// RuntimeConfig names the helper object and members used by lowered code.
type RuntimeConfig struct {
	Object string `toml:"object"`
	Mark   string `toml:"mark"`
	Values string `toml:"values"`
	Next   string `toml:"next"`
	Keys   string `toml:"keys"`
}

// LowerConfig holds driver settings.
type LowerConfig struct {
	Jobs   int    `toml:"jobs"`
	Cache  *bool  `toml:"cache"`
	Out    string `toml:"out"`
	Format string `toml:"format"`
}

// CacheEnabled reports the cache setting; unset means enabled.
func (c LowerConfig) CacheEnabled() bool {
	return c.Cache == nil || *c.Cache
}

// LoadManifest finds regen.toml above startDir and loads it. ok is false
// when there is no file.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{Path: path, Root: filepath.Dir(path), Config: cfg}, true, nil
}

// LoadConfig parses one regen.toml and validates it.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Lower.Jobs < 0 {
		return fmt.Errorf("[lower].jobs must not be negative, got %d", c.Lower.Jobs)
	}
	switch c.Lower.Format {
	case "", "json", "js":
	default:
		return fmt.Errorf("[lower].format must be json or js, got %q", c.Lower.Format)
	}
	for key, name := range map[string]string{
		"object": c.Runtime.Object,
		"mark":   c.Runtime.Mark,
		"values": c.Runtime.Values,
		"next":   c.Runtime.Next,
		"keys":   c.Runtime.Keys,
	} {
		if name != "" && !isIdentifier(name) {
			return fmt.Errorf("[runtime].%s: %q is not an identifier", key, name)
		}
	}
	return nil
}

// isIdentifier accepts ASCII JavaScript identifiers.
func isIdentifier(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}
