package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// Header is the first line of every result file.
var Header = []string{"Time", "Susceptible", "Infected", "Recovered"}

const (
	timePrecision  = 4
	statePrecision = 6
)

// CSVWriter writes samples as "%.4f,%.6f,%.6f,%.6f" rows. Output is
// buffered until Flush.
type CSVWriter struct {
	w    *csv.Writer
	row  []string
	rows int
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), row: make([]string, len(Header))}
}

func (c *CSVWriter) WriteHeader() error {
	return c.w.Write(Header)
}

func (c *CSVWriter) Write(s dynamo.Sample) error {
	c.row[0] = strconv.FormatFloat(s.Time, 'f', timePrecision, 64)
	c.row[1] = strconv.FormatFloat(s.S, 'f', statePrecision, 64)
	c.row[2] = strconv.FormatFloat(s.I, 'f', statePrecision, 64)
	c.row[3] = strconv.FormatFloat(s.R, 'f', statePrecision, 64)
	if err := c.w.Write(c.row); err != nil {
		return err
	}
	c.rows++
	return nil
}

func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// Rows is the number of sample rows written, excluding the header.
func (c *CSVWriter) Rows() int { return c.rows }

// WriteCSV writes a header and every sample, then flushes.
func WriteCSV(w io.Writer, samples []dynamo.Sample) error {
	cw := NewCSVWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.Write(s); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// ReadCSV parses a result file written by CSVWriter.
func ReadCSV(r io.Reader) ([]dynamo.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty result file")
	}
	if records[0][0] != Header[0] {
		return nil, fmt.Errorf("unexpected header %v", records[0])
	}

	samples := make([]dynamo.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		var vals [4]float64
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+2, err)
			}
			vals[j] = v
		}
		samples = append(samples, dynamo.Sample{
			Time:  vals[0],
			State: dynamo.State{S: vals[1], I: vals[2], R: vals[3]},
		})
	}
	return samples, nil
}
