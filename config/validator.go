package config

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// ValidationError is a single invalid field.
type ValidationError struct {
	Field   string // config key, e.g. "grid.width"
	Value   any
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is every problem found by Validate.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}

	return sb.String()
}

// ValidLogLevels returns the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidLogFormats returns the accepted logging.format values.
func ValidLogFormats() []string {
	return []string{"text", "json"}
}

// Validate returns every invalid value in c; nil means c is usable.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, c.validateGrid()...)
	errs = append(errs, c.validateRun()...)
	errs = append(errs, c.validateBatch()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateGrid() []ValidationError {
	var errs []ValidationError
	if c.Grid.Width < 1 {
		errs = append(errs, ValidationError{"grid.width", c.Grid.Width, "must be at least 1"})
	}
	if c.Grid.Height < 1 {
		errs = append(errs, ValidationError{"grid.height", c.Grid.Height, "must be at least 1"})
	}

	return errs
}

func (c *Config) validateRun() []ValidationError {
	var errs []ValidationError
	if c.Run.MaxAttempts < 1 {
		errs = append(errs, ValidationError{"run.max_attempts", c.Run.MaxAttempts, "must be at least 1"})
	}
	if c.Run.ResampleLimit < -1 {
		errs = append(errs, ValidationError{"run.resample_limit", c.Run.ResampleLimit, "must be -1 (default) or non-negative"})
	}
	for i, w := range c.Run.Weights {
		if !(w > 0) || math.IsInf(w, 0) {
			errs = append(errs, ValidationError{fmt.Sprintf("run.weights[%d]", i), w, "must be positive and finite"})
		}
	}

	return errs
}

func (c *Config) validateBatch() []ValidationError {
	var errs []ValidationError
	if c.Batch.Size < 1 {
		errs = append(errs, ValidationError{"batch.size", c.Batch.Size, "must be at least 1"})
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, ValidationError{"batch.workers", c.Batch.Workers, "must be at least 1"})
	}

	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level,
			"must be one of: " + strings.Join(ValidLogLevels(), ", ")})
	}
	if !slices.Contains(ValidLogFormats(), strings.ToLower(c.Logging.Format)) {
		errs = append(errs, ValidationError{"logging.format", c.Logging.Format,
			"must be one of: " + strings.Join(ValidLogFormats(), ", ")})
	}

	return errs
}
