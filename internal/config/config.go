package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"invtier/internal/classification"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	BaseDir string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// AnalysisConfig contains classification parameters
type AnalysisConfig struct {
	AThreshold    float64 `yaml:"a_threshold" envconfig:"A_THRESHOLD" validate:"gt=0,lt=1"`
	BThreshold    float64 `yaml:"b_threshold" envconfig:"B_THRESHOLD" validate:"gt=0,lte=1"`
	XYZMode       string  `yaml:"xyz_mode" envconfig:"XYZ_MODE" validate:"oneof=dense sparse"`
	MinPeriods    int     `yaml:"min_periods" envconfig:"MIN_PERIODS" validate:"gte=2"`
	GridCellLimit int     `yaml:"grid_cell_limit" envconfig:"GRID_CELL_LIMIT" validate:"gt=0"`
}

// Load loads configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence
func Load() (*Config, error) {
	cfg := Default()

	if configFile := getConfigFilePath(); configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process("INVTIER", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks field constraints and cross-field invariants
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.Analysis.BThreshold <= c.Analysis.AThreshold {
		return fmt.Errorf("b_threshold (%v) must exceed a_threshold (%v)",
			c.Analysis.BThreshold, c.Analysis.AThreshold)
	}
	return nil
}

// ABCConfig translates the analysis section into the ABC classifier
// configuration
func (c *Config) ABCConfig() classification.ABCConfig {
	return classification.ABCConfig{
		AThreshold: c.Analysis.AThreshold,
		BThreshold: c.Analysis.BThreshold,
	}
}

// XYZConfig translates the analysis section into the XYZ classifier
// configuration
func (c *Config) XYZConfig() classification.XYZConfig {
	return classification.XYZConfig{
		Mode:          classification.Mode(c.Analysis.XYZMode),
		MinPeriods:    c.Analysis.MinPeriods,
		GridCellLimit: c.Analysis.GridCellLimit,
	}
}

// getConfigFilePath returns the path to the config file, if any
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use defaults and env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/invtier.log",
		},
		Paths: PathsConfig{
			DataDir: "data",
			LogsDir: "logs",
		},
		Analysis: AnalysisConfig{
			AThreshold:    0.80,
			BThreshold:    0.95,
			XYZMode:       string(classification.ModeDense),
			MinPeriods:    classification.DefaultMinPeriods,
			GridCellLimit: classification.DefaultGridCellLimit,
		},
	}
}
