package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/wavecollapse/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// checkerLibrary: orthogonal neighbours differ, diagonal neighbours match.
const checkerLibrary = `
n: 2
patterns:
  - {name: black, weight: 2, content: "#"}
  - {name: white, weight: 1, content: "."}
rules:
  - {a: black, b: white, dx: 1, dy: 0, symmetric: true}
  - {a: black, b: white, dx: -1, dy: 0, symmetric: true}
  - {a: black, b: white, dx: 0, dy: 1, symmetric: true}
  - {a: black, b: white, dx: 0, dy: -1, symmetric: true}
  - {a: black, b: black, dx: 1, dy: 1, symmetric: true}
  - {a: black, b: black, dx: -1, dy: 1, symmetric: true}
  - {a: white, b: white, dx: 1, dy: 1, symmetric: true}
  - {a: white, b: white, dx: -1, dy: 1, symmetric: true}
`

func writeLibrary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checker.yaml")
	require.NoError(t, os.WriteFile(path, []byte(checkerLibrary), 0o600))

	return path
}

// execute runs wfc with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	root := cli.NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())

	return out.String(), errOut.String(), err
}

func TestRoot_Commands(t *testing.T) {
	root := cli.NewRootCmd()
	assert.Equal(t, "wfc", root.Use)
	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"run", "batch"})
}

func TestRun_Checkerboard(t *testing.T) {
	lib := writeLibrary(t)
	out, _, err := execute(t, "run", "--library", lib, "--width", "4", "--height", "3", "--seed", "7")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	for y := 0; y < 3; y++ {
		assert.Contains(t, []string{"#.#.", ".#.#"}, lines[y], "row %d", y)
	}
	assert.NotEqual(t, lines[0], lines[1], "rows alternate")
	assert.Contains(t, out, "seed 7")
	assert.Contains(t, out, "attempts 1, contradictions 0, steps 1, average failed step 0.0")
	assert.Contains(t, out, "# black (2)")
}

func TestRun_Frames(t *testing.T) {
	lib := writeLibrary(t)
	out, _, err := execute(t, "run", "-l", lib, "-W", "2", "-H", "2", "--seed", "3", "--frames")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "step 1\n"), out)
}

func TestRun_Deterministic(t *testing.T) {
	lib := writeLibrary(t)
	a, _, err := execute(t, "run", "-l", lib, "--seed", "11")
	require.NoError(t, err)
	b, _, err := execute(t, "run", "-l", lib, "--seed", "11")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_Errors(t *testing.T) {
	_, _, err := execute(t, "run")
	assert.ErrorContains(t, err, "no pattern library")

	lib := writeLibrary(t)
	_, _, err = execute(t, "run", "-l", lib, "--width", "0")
	assert.ErrorContains(t, err, "grid.width")

	_, _, err = execute(t, "run", "-l", lib, "--weights", "1,2,3")
	assert.ErrorContains(t, err, "weights")

	_, _, err = execute(t, "run", "-l", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "open library")

	_, _, err = execute(t, "run", "-l", lib, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestRun_EnvAndConfigFile(t *testing.T) {
	lib := writeLibrary(t)
	cfg := filepath.Join(t.TempDir(), "wfc.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("grid:\n  width: 6\n  height: 2\nrun:\n  seed: 5\n"), 0o600))
	t.Setenv("WFC_GRID_HEIGHT", "4")

	out, _, err := execute(t, "run", "-l", lib, "--config", cfg)
	require.NoError(t, err)
	lines := strings.Split(out, "\n")
	for y := 0; y < 4; y++ {
		assert.Len(t, lines[y], 6, "row %d", y)
	}
	assert.Equal(t, "", lines[4], "height comes from the environment")
	assert.Contains(t, out, "seed 5")
}

func TestRun_MetricsAndLogging(t *testing.T) {
	lib := writeLibrary(t)
	prom := filepath.Join(t.TempDir(), "wfc.prom")
	_, logs, err := execute(t, "run", "-l", lib, "--seed", "2", "--metrics-file", prom,
		"--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)

	data, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(data), `wavecollapse_collapse_attempts_total{outcome="propagated"} 1`)
	assert.Contains(t, logs, `"msg":"library loaded"`)
	assert.Contains(t, logs, `"msg":"run finished"`)
}

func TestBatch_YAML(t *testing.T) {
	lib := writeLibrary(t)
	args := []string{"batch", "-l", lib, "-W", "4", "-H", "3", "--size", "3", "--seed", "5"}

	one, _, err := execute(t, append(args, "--workers", "1")...)
	require.NoError(t, err)
	three, _, err := execute(t, append(args, "--workers", "3")...)
	require.NoError(t, err)
	assert.Equal(t, one, three, "output does not depend on the worker count")

	var doc struct {
		Seed    int64 `yaml:"seed"`
		Size    int   `yaml:"size"`
		Failed  int   `yaml:"failed"`
		Samples []struct {
			Index   int            `yaml:"index"`
			RunID   string         `yaml:"run_id"`
			Regions int            `yaml:"regions"`
			Counts  map[string]int `yaml:"counts"`
			Grid    []string       `yaml:"grid"`
		} `yaml:"samples"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(one), &doc))
	assert.EqualValues(t, 5, doc.Seed)
	assert.Equal(t, 3, doc.Size)
	assert.Zero(t, doc.Failed)
	require.Len(t, doc.Samples, 3)
	for i, s := range doc.Samples {
		assert.Equal(t, i, s.Index)
		assert.NotEmpty(t, s.RunID)
		assert.Equal(t, 12, s.Regions, "a checkerboard has no orthogonal runs")
		assert.Equal(t, map[string]int{"black": 6, "white": 6}, s.Counts)
		assert.Len(t, s.Grid, 3)
	}
}

func TestBatch_InvalidWorkers(t *testing.T) {
	lib := writeLibrary(t)
	_, _, err := execute(t, "batch", "-l", lib, "--workers", "0")
	assert.ErrorContains(t, err, "batch.workers")
}
