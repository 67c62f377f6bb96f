package analysis

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/sirsim/internal/dynamo"
	"github.com/san-kum/sirsim/internal/integrators"
	"github.com/san-kum/sirsim/internal/models"
	"github.com/san-kum/sirsim/internal/sim"
)

func TestEquilibriumEndemic(t *testing.T) {
	eq, endemic := Equilibrium(models.DefaultParams(), 1.0)
	require.True(t, endemic)

	assert.InDelta(t, 0.1/0.155, eq.S, 1e-12)
	assert.InDelta(t, 0.016897081413, eq.I, 1e-9)
	assert.InDelta(t, 0.337941628264, eq.R, 1e-9)
	assert.InDelta(t, 1.0, eq.Total(), 1e-12)

	dx := models.Derive(eq, models.DefaultParams())
	assert.InDelta(t, 0, dx.S, 1e-12)
	assert.InDelta(t, 0, dx.I, 1e-12)
	assert.InDelta(t, 0, dx.R, 1e-12)
}

func TestEquilibriumDiseaseFree(t *testing.T) {
	eq, endemic := Equilibrium(models.Params{Beta: 0.05, Delta: 0.1, Lambda: 0.01}, 1.0)
	assert.False(t, endemic)
	assert.Equal(t, dynamo.State{S: 1.0}, eq)

	_, endemic = Equilibrium(models.Params{}, 1.0)
	assert.False(t, endemic)
}

func TestLongRunApproachesEquilibrium(t *testing.T) {
	s := sim.New(models.NewSIRS(models.DefaultParams()), integrators.NewEuler())
	result, err := s.Run(context.Background(), models.DefaultState(), dynamo.Config{Dt: 0.1, Duration: 4000})
	require.NoError(t, err)

	eq, _ := Equilibrium(models.DefaultParams(), models.DefaultState().Total())
	final := result.Final()
	assert.InDelta(t, eq.S, final.S, 1e-4)
	assert.InDelta(t, eq.I, final.I, 1e-4)
	assert.InDelta(t, eq.R, final.R, 1e-4)
}

func TestSummarize(t *testing.T) {
	samples := []dynamo.Sample{
		{Time: 0, State: dynamo.State{S: 0.9, I: 0.1, R: 0}},
		{Time: 1, State: dynamo.State{S: 0.7, I: 0.3, R: 0}},
		{Time: 2, State: dynamo.State{S: 0.6, I: 0.2, R: 0.21}},
	}

	sum := Summarize(samples)
	assert.Equal(t, 3, sum.Samples)
	assert.Equal(t, 0.3, sum.PeakI)
	assert.Equal(t, 1.0, sum.PeakTime)
	assert.Equal(t, Range{Min: 0.6, Max: 0.9}, sum.S)
	assert.Equal(t, samples[2], sum.Final)
	assert.InDelta(t, 0.01, sum.MassDrift, 1e-12)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestDominantPeriod(t *testing.T) {
	dt := 0.5
	values := make([]float64, 1000)
	for i := range values {
		values[i] = 0.3 + 0.1*math.Sin(2*math.Pi*float64(i)*dt/50)
	}

	assert.InDelta(t, 50, DominantPeriod(values, dt), 1e-9)
	assert.Zero(t, DominantPeriod(values[:2], dt))
	assert.Zero(t, DominantPeriod(make([]float64, 64), dt))
}

func TestPowerSpectrumLength(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 16))
	assert.Len(t, ps, 8)
}
