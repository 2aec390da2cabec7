package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int             `yaml:"port" envconfig:"PORT" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	MaxUploadBytes  int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432" validate:"min=1"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"10"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"20"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output string `yaml:"output" envconfig:"OUTPUT" default:"console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir     string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	BuildDir    string `yaml:"build_dir" envconfig:"BUILD_DIR" default:"build"`
	RunsDir     string `yaml:"runs_dir" envconfig:"RUNS_DIR" default:"runs"`
	RegionsFile string `yaml:"regions_file" envconfig:"REGIONS_FILE"`
}

// PipelineConfig tunes normalization and aggregation behavior
type PipelineConfig struct {
	TopMeasures    int  `yaml:"top_measures" envconfig:"TOP_MEASURES" default:"5" validate:"min=1"`
	FlagOutliers   bool `yaml:"flag_outliers" envconfig:"FLAG_OUTLIERS" default:"true"`
	WritePivot     bool `yaml:"write_pivot" envconfig:"WRITE_PIVOT" default:"true"`
	ContinueOnFile bool `yaml:"continue_on_file" envconfig:"CONTINUE_ON_FILE" default:"true"`
}

// Load loads configuration from environment variables and an optional
// config file. Precedence: env > file > struct defaults.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration using the given YAML file path. A missing
// file is not an error; env variables and defaults still apply.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process("INVESTVIZ", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.Validate(); err != nil {
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

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Server.Port == 0 {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	if envConfig.Server.ReadTimeout == 0 {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if envConfig.Server.WriteTimeout == 0 {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if envConfig.Server.MaxUploadBytes == 0 {
		envConfig.Server.MaxUploadBytes = fileConfig.Server.MaxUploadBytes
	}
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Paths.DataDir == "" {
		envConfig.Paths.DataDir = fileConfig.Paths.DataDir
	}
	if envConfig.Paths.BuildDir == "" {
		envConfig.Paths.BuildDir = fileConfig.Paths.BuildDir
	}
	if envConfig.Paths.RunsDir == "" {
		envConfig.Paths.RunsDir = fileConfig.Paths.RunsDir
	}
	if envConfig.Paths.RegionsFile == "" {
		envConfig.Paths.RegionsFile = fileConfig.Paths.RegionsFile
	}
	if envConfig.Pipeline.TopMeasures == 0 {
		envConfig.Pipeline.TopMeasures = fileConfig.Pipeline.TopMeasures
	}

	return envConfig
}

// Validate checks the configuration with struct-level validation tags
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return nil
}

// RunDir returns the output directory for a single pipeline run
func (c *Config) RunDir(runID string) string {
	return filepath.Join(c.Paths.RunsDir, runID)
}

// getConfigFilePath returns the default config file location
func getConfigFilePath() string {
	if path := os.Getenv("INVESTVIZ_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}
