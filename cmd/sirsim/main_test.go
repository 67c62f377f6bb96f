package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/storage"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRunWritesResultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, "--out", path, "0.9352", "0.0193", "0.0455", "0.155", "0.1", "0.005", "1", "0.1")
	require.NoError(t, err)
	assert.Contains(t, out, "total steps")
	assert.Contains(t, out, "11")

	samples, err := storage.ReadCSVFile(path)
	require.NoError(t, err)
	require.Len(t, samples, 12)
	assert.Equal(t, 0.0, samples[0].Time)
	assert.Equal(t, 1.1, samples[11].Time)
}

func TestRunQuiet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	out, err := execute(t, "--quiet", "--out", path, "0.9", "0.1", "0", "0.2", "0.1", "0.01", "2", "1")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRunRejectsBadArity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	_, err := execute(t, "--out", path, "0.9", "0.1", "0", "0.2", "0.1", "0.01", "2")
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
	assert.NoFileExists(t, path)
}

func TestRunNegativeWithoutSeparator(t *testing.T) {
	tests := map[string][]string{
		"negative beta": {"0.9", "0.1", "0", "-0.1", "0.1", "0.005", "10", "1"},
		"negative h":    {"0.9", "0.1", "0", "0.2", "0.1", "0.005", "10", "-1"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")
			_, err := execute(t, append([]string{"--out", path}, args...)...)
			require.ErrorIs(t, err, dynamo.ErrInvalidConfig)
			assert.Contains(t, err.Error(), "must follow --")
			assert.NoFileExists(t, path)
		})
	}

	_, err := execute(t, "--bogus")
	require.Error(t, err)
	assert.NotErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestPresetFromEnvironment(t *testing.T) {
	t.Setenv("SIRSIM_PRESET", "no-such-preset")
	path := filepath.Join(t.TempDir(), "out.csv")

	_, err := execute(t, "--out", path)
	require.ErrorIs(t, err, dynamo.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "no-such-preset")
	assert.NoFileExists(t, path)
}

func TestRunInvalidConfigWritesNothing(t *testing.T) {
	tests := map[string][]string{
		"zero h":       {"0.9", "0.1", "0", "0.2", "0.1", "0.01", "10", "0"},
		"zero t_final": {"0.9", "0.1", "0", "0.2", "0.1", "0.01", "0", "0.1"},
		"negative I0":  {"--", "0.9", "-0.1", "0", "0.2", "0.1", "0.01", "10", "0.1"},
		"non-numeric":  {"0.9", "x", "0", "0.2", "0.1", "0.01", "10", "0.1"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out.csv")
			_, err := execute(t, append([]string{"--out", path}, args...)...)
			assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
			assert.NoFileExists(t, path)
		})
	}
}

func TestRunOutputUnavailable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.csv")
	_, err := execute(t, "--out", path)
	assert.ErrorIs(t, err, dynamo.ErrOutputUnavailable)
}

func TestRunUnknownPreset(t *testing.T) {
	_, err := execute(t, "--preset", "nope", "--out", filepath.Join(t.TempDir(), "x.csv"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestRunConfigFileAndSave(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "run.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("t_final: 5\nh: 1\n"), 0644))
	dataDir := filepath.Join(dir, "data")
	outPath := filepath.Join(dir, "out.csv")

	out, err := execute(t, "--config", cfgPath, "--save", "--data", dataDir, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "run id: sirs_")

	out, err = execute(t, "list", "--data", dataDir)
	require.NoError(t, err)
	assert.Contains(t, out, "sirs_")
	assert.Contains(t, out, "0.155")

	samples, err := storage.ReadCSVFile(outPath)
	require.NoError(t, err)
	assert.Len(t, samples, 6)
}

func TestSubcommandsOnResultFile(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	_, err := execute(t, "--quiet", "--out", csvPath, "0.9352", "0.0193", "0.0455", "0.155", "0.1", "0.005", "200", "0.5")
	require.NoError(t, err)

	out, err := execute(t, "plot", csvPath, "--width", "40", "--height", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "peak infected")

	out, err = execute(t, "analyze", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "equilibrium (endemic)")

	svgPath := filepath.Join(dir, "out.svg")
	_, err = execute(t, "svg", csvPath, svgPath)
	require.NoError(t, err)
	data, err := os.ReadFile(svgPath)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "</svg>"))
}

func TestPresetsCommand(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)
	for _, name := range []string{"reference", "outbreak", "slow_waning", "coarse"} {
		assert.Contains(t, out, name)
	}
}

func TestListEmpty(t *testing.T) {
	out, err := execute(t, "list", "--data", filepath.Join(t.TempDir(), "none"))
	require.NoError(t, err)
	assert.Contains(t, out, "no runs found")
}

func TestSweepCommand(t *testing.T) {
	out, err := execute(t, "sweep", "--param", "lambda", "--min", "0", "--max", "0.02", "--points", "3",
		"0.9352", "0.0193", "0.0455", "0.155", "0.1", "0.005", "10", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "LAMBDA")
	assert.Contains(t, out, "0.01000")
	assert.Contains(t, out, "peak I")
}

func TestScenarioCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\nruns:\n  - name: one\n    settings: {t_final: 2, h: 1}\n"), 0644))

	out, err := execute(t, "scenario", path, "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "one")
	assert.FileExists(t, filepath.Join(dir, "one.csv"))
}
