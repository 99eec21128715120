// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads the fv6502 YAML configuration.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config selects the directories, programs, and parallelism of the flow.
type Config struct {
	FormalDir  string   `yaml:"formal_dir"`  // Directory of generator scripts.
	OutputDir  string   `yaml:"output_dir"`  // Directory for il, job, and work files.
	Template   string   `yaml:"template"`    // Job template path; built-in if empty.
	SbyCommand string   `yaml:"sby_command"` // Checker program.
	SbyArgs    []string `yaml:"sby_args"`    // Extra checker arguments.
	Generator  []string `yaml:"generator"`   // External generator command; scripts if empty.
	Jobs       int      `yaml:"jobs"`        // Parallel verification jobs.
	Verbose    bool     `yaml:"verbose"`     // Verbose logging.
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		FormalDir:  "formal",
		OutputDir:  filepath.Join("formal", "sby"),
		SbyCommand: "sby",
		Jobs:       1,
	}
}

// Load reads a configuration file, filling absent fields with defaults.
// A missing file is not an error; the defaults stand.
func Load(path string) (cfg Config, err error) {
	cfg = Default()

	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = nil
			return
		}
		return
	}
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return
	}

	if cfg.FormalDir == "" {
		cfg.FormalDir = "formal"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join("formal", "sby")
	}
	if cfg.SbyCommand == "" {
		cfg.SbyCommand = "sby"
	}
	if cfg.Jobs <= 0 {
		cfg.Jobs = 1
	}
	return
}
