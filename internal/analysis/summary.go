package analysis

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Range is the observed [Min, Max] of one compartment.
type Range struct {
	Min, Max float64
}

type Summary struct {
	Samples   int
	PeakI     float64
	PeakTime  float64
	Initial   dynamo.Sample
	Final     dynamo.Sample
	S, I, R   Range
	MassDrift float64
}

// Summarize scans a trajectory. It returns the zero Summary for no samples.
func Summarize(samples []dynamo.Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	s, i, r := Series(samples)
	totals := make([]float64, len(samples))
	floats.Add(totals, s)
	floats.Add(totals, i)
	floats.Add(totals, r)
	floats.AddConst(-totals[0], totals)

	peak := floats.MaxIdx(i)
	return Summary{
		Samples:   len(samples),
		PeakI:     i[peak],
		PeakTime:  samples[peak].Time,
		Initial:   samples[0],
		Final:     samples[len(samples)-1],
		S:         Range{Min: floats.Min(s), Max: floats.Max(s)},
		I:         Range{Min: floats.Min(i), Max: floats.Max(i)},
		R:         Range{Min: floats.Min(r), Max: floats.Max(r)},
		MassDrift: floats.Max([]float64{floats.Max(totals), -floats.Min(totals)}),
	}
}

// Series splits samples into per-compartment slices.
func Series(samples []dynamo.Sample) (s, i, r []float64) {
	s = make([]float64, len(samples))
	i = make([]float64, len(samples))
	r = make([]float64, len(samples))
	for k, sample := range samples {
		s[k], i[k], r[k] = sample.S, sample.I, sample.R
	}
	return s, i, r
}
