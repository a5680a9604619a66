package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDataDir  = ".jointreg"
	DefaultLogLevel = "info"
	DefaultMass     = 1.0
)

// Config holds the CLI settings that can live in a file.
type Config struct {
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	Strict   bool   `yaml:"strict"`
	Plot     bool   `yaml:"plot"`
	Save     bool   `yaml:"save"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:  DefaultDataDir,
		LogLevel: DefaultLogLevel,
		Strict:   true,
		Save:     true,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
