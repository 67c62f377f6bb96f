package metrics

import "github.com/san-kum/sirsim/internal/dynamo"

// Default returns the metrics attached to every CLI run.
func Default() []dynamo.Metric {
	return []dynamo.Metric{
		NewPeakInfected(),
		NewFinalInfected(),
		NewMassDrift(),
		NewBounds(),
	}
}
