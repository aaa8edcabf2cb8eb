package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/katalvlaran/wavecollapse/collapse"
	"github.com/katalvlaran/wavecollapse/metrics"
	"github.com/katalvlaran/wavecollapse/pattern"
	"github.com/prometheus/client_golang/prometheus"
)

// errNoLibrary is returned when neither --library nor library.path is set.
var errNoLibrary = errors.New("no pattern library: set --library or library.path")

// loadLibrary decodes the library document named by the config.
func (a *app) loadLibrary() (*pattern.Library, error) {
	path := a.cfg.Library.Path
	if path == "" {
		return nil, errNoLibrary
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	defer f.Close()

	lib, err := pattern.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.logger.Debug("library loaded",
		slog.String("path", path),
		slog.Int("patterns", lib.Len()),
		slog.Int("n", lib.N()))

	return lib, nil
}

// seed returns the configured seed, or a fresh one when it is 0.
func (a *app) seed() int64 {
	if s := a.cfg.Run.Seed; s != 0 {
		return s
	}
	s := time.Now().UnixNano()
	a.logger.Info("seed chosen", slog.Int64("seed", s))

	return s
}

// runOptions translates the run config into collapse options.
func (a *app) runOptions(seed int64) []collapse.Option {
	opts := []collapse.Option{
		collapse.WithBacktrack(a.cfg.Run.Backtrack),
		collapse.WithMaxAttempts(a.cfg.Run.MaxAttempts),
		collapse.WithSeed(seed),
		collapse.WithLogger(a.logger),
	}
	if a.cfg.Run.ResampleLimit >= 0 {
		opts = append(opts, collapse.WithResampleLimit(a.cfg.Run.ResampleLimit))
	}
	if len(a.cfg.Run.Weights) > 0 {
		opts = append(opts, collapse.WithWeights(a.cfg.Run.Weights))
	}

	return opts
}

// metricsSink is a private registry plus recorder, or nil when disabled.
type metricsSink struct {
	path string
	reg  *prometheus.Registry
	rec  *metrics.Recorder
}

func (a *app) newMetricsSink() (*metricsSink, error) {
	if a.cfg.Metrics.File == "" {
		return nil, nil
	}
	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	return &metricsSink{path: a.cfg.Metrics.File, reg: reg, rec: rec}, nil
}

// options adds the recorder to opts; a nil sink leaves opts unchanged.
func (s *metricsSink) options(opts []collapse.Option) []collapse.Option {
	if s == nil {
		return opts
	}

	return append(opts, collapse.WithRecorder(s.rec))
}

func (s *metricsSink) flush(logger *slog.Logger) error {
	if s == nil {
		return nil
	}
	if err := metrics.WriteTextfile(s.path, s.reg); err != nil {
		return err
	}
	logger.Debug("metrics written", slog.String("file", s.path))

	return nil
}
