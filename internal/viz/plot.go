package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// PlotTrajectory charts S, I and R against sample index. asciigraph
// resamples each series to width columns.
func PlotTrajectory(samples []dynamo.Sample, width, height int) string {
	if len(samples) == 0 {
		return ""
	}

	s := make([]float64, len(samples))
	i := make([]float64, len(samples))
	r := make([]float64, len(samples))
	for k, sample := range samples {
		s[k], i[k], r[k] = sample.S, sample.I, sample.R
	}

	last := samples[len(samples)-1]
	return asciigraph.PlotMany([][]float64{s, i, r},
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(3),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red, asciigraph.Green),
		asciigraph.SeriesLegends("S", "I", "R"),
		asciigraph.Caption(fmt.Sprintf("t = %.1f .. %.1f", samples[0].Time, last.Time)),
	)
}

// PlotInfected charts the infected proportion alone.
func PlotInfected(values []float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.LowerBound(0),
		asciigraph.Precision(4),
		asciigraph.SeriesColors(asciigraph.Red),
		asciigraph.Caption("Infected"),
	)
}
