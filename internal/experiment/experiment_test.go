package experiment

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sirsim/internal/config"
	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/storage"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.TFinal = 1
	cfg.H = 0.1
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.H = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestExecuteWritesEveryStep(t *testing.T) {
	e, err := New(shortConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	result, err := e.Execute(context.Background(), &buf)
	require.NoError(t, err)

	assert.Equal(t, 11, result.StepsTaken)
	assert.Empty(t, result.Samples)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "Time,Susceptible,Infected,Recovered", lines[0])
	assert.Equal(t, "0.0000,0.935200,0.019300,0.045500", lines[1])
	assert.Equal(t, "0.1000,0.934943,0.019387,0.045670", lines[2])
	assert.True(t, strings.HasPrefix(lines[12], "1.1000,"))

	assert.Contains(t, result.Metrics, "peak_infected")
	assert.Less(t, result.MassDrift, 1e-12)
}

func TestExecuteAtStepBound(t *testing.T) {
	cfg := shortConfig()
	cfg.MaxSteps = 10

	e, err := New(cfg)
	require.NoError(t, err)

	var buf bytes.Buffer
	result, err := e.Execute(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 11, result.StepsTaken)
	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 13)
}

func TestExecuteWithSamples(t *testing.T) {
	e, err := New(shortConfig(), WithSamples())
	require.NoError(t, err)

	var buf bytes.Buffer
	result, err := e.Execute(context.Background(), &buf)
	require.NoError(t, err)
	require.Len(t, result.Samples, 12)

	parsed, err := storage.ReadCSV(&buf)
	require.NoError(t, err)
	assert.Len(t, parsed, len(result.Samples))
}

func TestExecuteCanceled(t *testing.T) {
	e, err := New(shortConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err = e.Execute(ctx, &buf)
	assert.ErrorIs(t, err, dynamo.ErrCanceled)
	assert.Equal(t, "Time,Susceptible,Infected,Recovered\n", buf.String())
}

type failAfter struct{ n int }

func (f *failAfter) Write(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, errors.New("device full")
	}
	f.n--
	return len(p), nil
}

func TestExecuteReportsWriteFailure(t *testing.T) {
	e, err := New(shortConfig())
	require.NoError(t, err)

	_, err = e.Execute(context.Background(), &failAfter{})
	assert.Error(t, err)
}

func TestRunMatchesExecute(t *testing.T) {
	e, err := New(shortConfig())
	require.NoError(t, err)

	result, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11, result.StepsTaken)
	assert.Len(t, result.Samples, 12)
	assert.Equal(t, e.Params(), shortConfig().Params)
}
