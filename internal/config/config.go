package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
// Values load from MATCHPULSE_* environment variables first; an optional
// config.yaml overlay fills anything the environment left unset.
type Config struct {
	Env      string         `yaml:"env" envconfig:"ENV" default:"dev"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"TRACING"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/pipeline.log"`
}

// PathsConfig contains the data directory layout
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data" validate:"required"`
	LogsDir string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// PipelineConfig contains build thresholds shared by the stages and the
// validator. Defaults match the analytical contracts: 450 minutes for a
// qualifying season, 900 for a qualifying career, 5 appearances for
// consistency statistics.
type PipelineConfig struct {
	MinMinutesSeason   float64       `yaml:"min_minutes_season" envconfig:"MIN_MINUTES_SEASON" default:"450" validate:"gt=0"`
	MinMinutesCareer   float64       `yaml:"min_minutes_career" envconfig:"MIN_MINUTES_CAREER" default:"900" validate:"gt=0"`
	MinAppearancesCV   int           `yaml:"min_appearances_cv" envconfig:"MIN_APPEARANCES_CV" default:"5" validate:"gt=1"`
	RawLoadConcurrency int           `yaml:"raw_load_concurrency" envconfig:"RAW_LOAD_CONCURRENCY" default:"8" validate:"gt=0"`
	StepTimeout        time.Duration `yaml:"step_timeout" envconfig:"STEP_TIMEOUT" default:"30m"`
}

// TracingConfig controls the OpenTelemetry stdout trace exporter
type TracingConfig struct {
	Enabled bool `yaml:"enabled" envconfig:"ENABLED" default:"false"`
}

// Load loads configuration from environment variables and an optional
// config.yaml in the working directory. Environment values win.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("MATCHPULSE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if data, err := os.ReadFile("config.yaml"); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
		}
		cfg = merge(fileCfg, cfg)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// merge overlays file values where the environment left the zero value
func merge(file, env Config) Config {
	out := env
	if out.Env == "" || out.Env == "dev" {
		if file.Env != "" {
			out.Env = file.Env
		}
	}
	if file.Logging.Level != "" && env.Logging.Level == "info" {
		out.Logging.Level = file.Logging.Level
	}
	if file.Logging.Output != "" && env.Logging.Output == "stdout" {
		out.Logging.Output = file.Logging.Output
	}
	if file.Paths.DataDir != "" && env.Paths.DataDir == "data" {
		out.Paths.DataDir = file.Paths.DataDir
	}
	if file.Tracing.Enabled {
		out.Tracing.Enabled = true
	}
	return out
}
