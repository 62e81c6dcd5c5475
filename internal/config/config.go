// Package config loads the CLI's optional .noirvmrc.yaml file.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds CLI-wide settings that a user can override per-project.
type Config struct {
	// Color controls ANSI coloring of disassembly output: "auto" (default,
	// decided by terminal detection), "always", or "never".
	Color string `yaml:"color"`
	// HumanizeBytes switches heap-stats' source size line to humanize.Bytes
	// formatting ("1.2 kB") instead of a raw integer; the code byte count is
	// always printed raw.
	HumanizeBytes bool `yaml:"humanize_bytes"`
}

// Default returns the configuration used when no rc file is present.
func Default() Config {
	return Config{Color: "auto", HumanizeBytes: true}
}

// Load reads path and merges it onto Default(). A missing file is not an
// error: it just means the defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
