// Package cli implements the wfc command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/katalvlaran/wavecollapse/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is the state shared by every command of one invocation.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	logger *slog.Logger
}

// flagKeys maps persistent flags to their config keys.
var flagKeys = map[string]string{
	"config":         "config",
	"log-level":      "logging.level",
	"log-format":     "logging.format",
	"metrics-file":   "metrics.file",
	"library":        "library.path",
	"width":          "grid.width",
	"height":         "grid.height",
	"backtrack":      "run.backtrack",
	"max-attempts":   "run.max_attempts",
	"seed":           "run.seed",
	"resample-limit": "run.resample_limit",
	"weights":        "run.weights",
}

// NewRootCmd builds the wfc command tree with a private viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	defaults := config.Default()

	root := &cobra.Command{
		Use:   "wfc",
		Short: "Wave Function Collapse grid generator",
		Long: `wfc fills a width×height grid from a pattern library so that every cell
holds one pattern compatible with all of its neighbours.

The library is a YAML document of weighted patterns and adjacency rules.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringP("config", "c", "", "config file (default is "+config.ConfigDir()+"/config.yaml)")
	pf.String("log-level", defaults.Logging.Level, "log level: "+strings.Join(config.ValidLogLevels(), ", "))
	pf.String("log-format", defaults.Logging.Format, "log format: "+strings.Join(config.ValidLogFormats(), ", "))
	pf.String("metrics-file", "", "write Prometheus metrics to this file when done")
	pf.StringP("library", "l", "", "pattern library YAML document")
	pf.IntP("width", "W", defaults.Grid.Width, "grid width")
	pf.IntP("height", "H", defaults.Grid.Height, "grid height")
	pf.BoolP("backtrack", "b", defaults.Run.Backtrack, "resample observations predicted to contradict")
	pf.Int("max-attempts", defaults.Run.MaxAttempts, "whole-attempt budget per run")
	pf.Int64("seed", defaults.Run.Seed, "random seed (0 picks one)")
	pf.Int("resample-limit", defaults.Run.ResampleLimit, "resamples per step in backtrack mode (-1: a quarter of the library)")
	pf.StringSlice("weights", nil, "replacement pattern weights, comma separated")
	for flag, key := range flagKeys {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(newRunCmd(a), newBatchCmd(a))

	return root
}

// Execute runs the command tree against os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) initConfig(cmd *cobra.Command) error {
	config.SetDefaults(a.v)

	cfgFile := a.v.GetString("config")
	if cfgFile != "" {
		a.v.SetConfigFile(cfgFile)
	} else {
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(config.ConfigDir())
		a.v.AddConfigPath(".")
	}

	a.v.SetEnvPrefix(config.EnvPrefix)
	// WFC_GRID_WIDTH for grid.width
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", slog.String("file", used))
	}

	return nil
}
