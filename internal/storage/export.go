package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/sirsim/internal/models"
)

type ExportData struct {
	ID       string             `json:"id"`
	Params   models.Params      `json:"params"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Times    []float64          `json:"times"`
	S        []float64          `json:"susceptible"`
	I        []float64          `json:"infected"`
	R        []float64          `json:"recovered"`
	Metrics  map[string]float64 `json:"metrics"`
}

// ExportJSON writes a stored run and its samples as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		ID:       meta.ID,
		Params:   meta.Params,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    meta.Steps,
		Times:    make([]float64, len(samples)),
		S:        make([]float64, len(samples)),
		I:        make([]float64, len(samples)),
		R:        make([]float64, len(samples)),
		Metrics:  meta.Metrics,
	}
	for i, sample := range samples {
		data.Times[i] = sample.Time
		data.S[i] = sample.S
		data.I[i] = sample.I
		data.R[i] = sample.R
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
