package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/san-kum/sirsim/internal/dynamo"
)

// StdoutPath selects standard output instead of a file.
const StdoutPath = "-"

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// CreateOutput opens path for writing, truncating any existing file.
// Failures wrap dynamo.ErrOutputUnavailable.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == StdoutPath {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrOutputUnavailable, err)
	}
	return f, nil
}

func ReadCSVFile(path string) ([]dynamo.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
