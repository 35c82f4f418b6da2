package main

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "dictbuild.yaml"

// Config holds every dictbuild setting.
// Priority: flags > ENV > YAML > defaults (via env-default tags).
type Config struct {
	Output       string    `yaml:"output"        env:"DICTBUILD_OUTPUT"`
	MaxEntries   int       `yaml:"max_entries"   env:"DICTBUILD_MAX_ENTRIES"`
	Input        string    `yaml:"input"         env:"DICTBUILD_INPUT"`
	Encoding     string    `yaml:"encoding"      env:"DICTBUILD_ENCODING"      env-default:"utf-8"`
	WorkDir      string    `yaml:"work_dir"      env:"DICTBUILD_WORK_DIR"`
	KeepCSV      bool      `yaml:"keep_csv"      env:"DICTBUILD_KEEP_CSV"`
	ManifestPath string    `yaml:"manifest_path" env:"DICTBUILD_MANIFEST"`
	SourcesDB    string    `yaml:"sources_db"    env:"DICTBUILD_SOURCES_DB"    env-default:"sources.db"`
	Sources      []string  `yaml:"sources"       env:"DICTBUILD_SOURCES"       env-default:"ecdict-csv,ecdict-zip" env-separator:","`
	Dict         string    `yaml:"dict"          env:"DICTBUILD_DICT"`
	Addr         string    `yaml:"addr"          env:"DICTBUILD_ADDR"          env-default:":8420"`
	Log          LogConfig `yaml:"log"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"  env:"DICTBUILD_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"DICTBUILD_LOG_FORMAT" env-default:"text"`
}

// loadConfig reads path when it exists. A missing file is only an error when
// the path was given explicitly; otherwise environment and defaults apply.
func loadConfig(path string, explicit bool) (*Config, error) {
	var cfg Config

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		return &cfg, nil
	} else if explicit {
		return nil, fmt.Errorf("config: file %s not found", path)
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	return &cfg, nil
}
