package logkeep

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file form of the Logger options.
//
//	directory: /var/lib/myapp/logs
//	name: log.db
//	capacity: 1000
//	min_severity: debug
//	debug: false
//	destructive_migration: false
//
// Unset fields keep their defaults.
type Config struct {
	Directory            string `yaml:"directory,omitempty"`
	Name                 string `yaml:"name,omitempty"`
	Capacity             *int   `yaml:"capacity,omitempty"`
	MinSeverity          string `yaml:"min_severity,omitempty"`
	Debug                bool   `yaml:"debug,omitempty"`
	DestructiveMigration bool   `yaml:"destructive_migration,omitempty"`
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes YAML config. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	return cfg, nil
}

// Options converts the config to Logger options.
func (c Config) Options() ([]Option, error) {
	var opts []Option
	if c.Directory != "" {
		opts = append(opts, WithDirectory(c.Directory))
	}
	if c.Name != "" {
		opts = append(opts, WithName(c.Name))
	}
	if c.Capacity != nil {
		if *c.Capacity < 0 {
			return nil, fmt.Errorf("capacity %d: %w", *c.Capacity, ErrInvalidCapacity)
		}
		opts = append(opts, WithCapacity(*c.Capacity))
	}
	if c.MinSeverity != "" {
		s, err := ParseSeverity(c.MinSeverity)
		if err != nil {
			return nil, fmt.Errorf("min_severity: %w", err)
		}
		opts = append(opts, WithMinSeverity(s))
	}
	if c.Debug {
		opts = append(opts, WithDebug(true))
	}
	if c.DestructiveMigration {
		opts = append(opts, WithDestructiveMigration())
	}
	return opts, nil
}
