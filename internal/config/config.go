// Package config loads the CLI configuration file.
//
// The file is YAML. Unrecognized keys are ignored so one file can be shared
// with other tools; durations accept Go duration strings or integer
// milliseconds.
//
//	type_delay: 60ms
//	delete_delay: 20
//	wait: 250ms
//	journal: ~/.typewriter/journal.db
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/typewriter/internal/script"
	"github.com/roach88/typewriter/internal/typewriter"
)

// Config holds CLI defaults.
type Config struct {
	TypeDelay   time.Duration
	DeleteDelay time.Duration
	Wait        time.Duration

	// Journal is the default journal database path. Empty disables journaling
	// unless a --db flag is given.
	Journal string
}

// file is the on-disk shape of Config.
type file struct {
	TypeDelay   *script.Duration `yaml:"type_delay"`
	DeleteDelay *script.Duration `yaml:"delete_delay"`
	Wait        *script.Duration `yaml:"wait"`
	Journal     string           `yaml:"journal"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TypeDelay:   typewriter.DefaultTypeDelay,
		DeleteDelay: typewriter.DefaultDeleteDelay,
		Wait:        typewriter.DefaultWaitDuration,
	}
}

// Load reads the configuration at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration over the defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if f.TypeDelay != nil {
		cfg.TypeDelay = f.TypeDelay.Std()
	}
	if f.DeleteDelay != nil {
		cfg.DeleteDelay = f.DeleteDelay.Std()
	}
	if f.Wait != nil {
		cfg.Wait = f.Wait.Std()
	}
	cfg.Journal = expandHome(f.Journal)
	return cfg, nil
}

// Options returns the sequencer options for cfg.
func (c Config) Options() []typewriter.Option {
	return []typewriter.Option{
		typewriter.WithTypeDelay(c.TypeDelay),
		typewriter.WithDeleteDelay(c.DeleteDelay),
		typewriter.WithWaitDuration(c.Wait),
	}
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	return home + path[1:]
}

// ErrNoConfig is returned by Find when no default config file exists.
var ErrNoConfig = errors.New("no config file found")

// Find returns the first existing file among candidates.
func Find(candidates ...string) (string, error) {
	for _, c := range candidates {
		c = expandHome(c)
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", ErrNoConfig
}
