package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Processing ProcessingConfig `yaml:"processing"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// ProcessingConfig controls document processing limits and artifacts.
type ProcessingConfig struct {
	// MaxBatchFiles caps the number of files in one batch request.
	MaxBatchFiles int `yaml:"max_batch_files"`
	// OutputDir, when set, is where generated CSVs are stored.
	OutputDir string `yaml:"output_dir"`
}

// Default returns the configuration used when no file is provided.
func Default() Config {
	return Config{
		Server:     ServerConfig{Port: 8080},
		Processing: ProcessingConfig{MaxBatchFiles: 10},
	}
}

// Load reads a YAML config file, filling unset fields from defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = Default().Server.Port
	}
	if cfg.Processing.MaxBatchFiles == 0 {
		cfg.Processing.MaxBatchFiles = Default().Processing.MaxBatchFiles
	}
	return &cfg, nil
}
