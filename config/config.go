// Package config holds the wfc command-line configuration.
//
// Values are layered by viper: defaults from Default, then an optional YAML
// file, then WFC_* environment variables (dots become underscores, e.g.
// WFC_GRID_WIDTH for grid.width), then command-line flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "WFC"

// Config is the complete wfc configuration.
type Config struct {
	Grid    GridConfig    `mapstructure:"grid"`
	Run     RunConfig     `mapstructure:"run"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Library LibraryConfig `mapstructure:"library"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// GridConfig is the output grid shape.
type GridConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// RunConfig controls a single collapse run.
type RunConfig struct {
	// Backtrack enables bounded resampling of doomed observations.
	Backtrack bool `mapstructure:"backtrack"`
	// MaxAttempts is the whole-attempt budget.
	MaxAttempts int `mapstructure:"max_attempts"`
	// Seed fixes the random stream; 0 picks a fresh seed per invocation.
	Seed int64 `mapstructure:"seed"`
	// ResampleLimit bounds resamples per step; -1 means a quarter of the library.
	ResampleLimit int `mapstructure:"resample_limit"`
	// Weights, when set, replace the library weights (one per pattern).
	Weights []float64 `mapstructure:"weights"`
}

// BatchConfig controls dataset generation.
type BatchConfig struct {
	Size    int `mapstructure:"size"`
	Workers int `mapstructure:"workers"`
}

// LibraryConfig locates the pattern library document.
type LibraryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	// Level: "debug", "info", "warn" or "error".
	Level string `mapstructure:"level"`
	// Format: "text" or "json".
	Format string `mapstructure:"format"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// File, when set, receives the metrics after the command finishes.
	File string `mapstructure:"file"`
}

// Default returns a Config with the default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Width:  16,
			Height: 16,
		},
		Run: RunConfig{
			MaxAttempts:   200,
			ResampleLimit: -1,
		},
		Batch: BatchConfig{
			Size:    10,
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers the default values with v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("grid.width", defaults.Grid.Width)
	v.SetDefault("grid.height", defaults.Grid.Height)

	v.SetDefault("run.backtrack", defaults.Run.Backtrack)
	v.SetDefault("run.max_attempts", defaults.Run.MaxAttempts)
	v.SetDefault("run.seed", defaults.Run.Seed)
	v.SetDefault("run.resample_limit", defaults.Run.ResampleLimit)
	v.SetDefault("run.weights", defaults.Run.Weights)

	v.SetDefault("batch.size", defaults.Batch.Size)
	v.SetDefault("batch.workers", defaults.Batch.Workers)

	v.SetDefault("library.path", defaults.Library.Path)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetDefault("metrics.file", defaults.Metrics.File)
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// ConfigDir returns the directory searched for config.yaml.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "wfc")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".wfc"
	}

	return filepath.Join(home, ".config", "wfc")
}
