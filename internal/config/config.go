package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/wil.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputDir    string `yaml:"input_dir" envconfig:"INPUT_DIR" default:"data/input" validate:"required"`
	CleanedDir  string `yaml:"cleaned_dir" envconfig:"CLEANED_DIR" default:"data/cleaned" validate:"required"`
	ReportsDir  string `yaml:"reports_dir" envconfig:"REPORTS_DIR" default:"data/reports" validate:"required"`
	AnalysisDir string `yaml:"analysis_dir" envconfig:"ANALYSIS_DIR" default:"data/analysis" validate:"required"`
	LogsDir     string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs" validate:"required"`
}

// PipelineConfig contains operational settings for cleaning and analysis runs
type PipelineConfig struct {
	// FillMissing turns on the optional missing-value fill stage.
	FillMissing bool `yaml:"fill_missing" envconfig:"FILL_MISSING" default:"false"`
	// BatchConcurrency bounds how many files a batch cleans in parallel.
	BatchConcurrency int `yaml:"batch_concurrency" envconfig:"BATCH_CONCURRENCY" default:"4" validate:"min=1,max=64"`
	// CSVByteOrderMark prefixes exported CSV files with a UTF-8 BOM for
	// spreadsheet tools that need it.
	CSVByteOrderMark bool `yaml:"csv_byte_order_mark" envconfig:"CSV_BOM" default:"false"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("WIL", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence,
// file values fill fields the environment left at their zero value)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Paths.InputDir == "" {
		envConfig.Paths.InputDir = fileConfig.Paths.InputDir
	}
	if envConfig.Paths.CleanedDir == "" {
		envConfig.Paths.CleanedDir = fileConfig.Paths.CleanedDir
	}
	if envConfig.Paths.ReportsDir == "" {
		envConfig.Paths.ReportsDir = fileConfig.Paths.ReportsDir
	}
	if envConfig.Paths.AnalysisDir == "" {
		envConfig.Paths.AnalysisDir = fileConfig.Paths.AnalysisDir
	}
	if envConfig.Paths.LogsDir == "" {
		envConfig.Paths.LogsDir = fileConfig.Paths.LogsDir
	}
	if !envConfig.Pipeline.FillMissing {
		envConfig.Pipeline.FillMissing = fileConfig.Pipeline.FillMissing
	}
	if envConfig.Pipeline.BatchConcurrency == 0 {
		envConfig.Pipeline.BatchConcurrency = fileConfig.Pipeline.BatchConcurrency
	}
	if !envConfig.Pipeline.CSVByteOrderMark {
		envConfig.Pipeline.CSVByteOrderMark = fileConfig.Pipeline.CSVByteOrderMark
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		return fmt.Errorf("logging output %q requires a file path", c.Logging.Output)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// EnsureDirectories creates every configured directory that does not exist yet.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.InputDir,
		c.Paths.CleanedDir,
		c.Paths.ReportsDir,
		c.Paths.AnalysisDir,
		c.Paths.LogsDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CleanedPath returns the path of a cleaned dataset file.
func (c *Config) CleanedPath(name string) string {
	return filepath.Join(c.Paths.CleanedDir, name)
}

// ReportPath returns the path of a quality report file.
func (c *Config) ReportPath(name string) string {
	return filepath.Join(c.Paths.ReportsDir, name)
}

// AnalysisPath returns the path of an analysis output file.
func (c *Config) AnalysisPath(name string) string {
	return filepath.Join(c.Paths.AnalysisDir, name)
}

// LogPath returns the path of a log file.
func (c *Config) LogPath(name string) string {
	return filepath.Join(c.Paths.LogsDir, name)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/wil.log",
		},
		Paths: PathsConfig{
			InputDir:    "data/input",
			CleanedDir:  "data/cleaned",
			ReportsDir:  "data/reports",
			AnalysisDir: "data/analysis",
			LogsDir:     "logs",
		},
		Pipeline: PipelineConfig{
			FillMissing:      false,
			BatchConcurrency: 4,
			CSVByteOrderMark: false,
		},
	}
}
