package store

import (
	"fmt"
	"io"
	"os"

	"github.com/longsim/longsim/internal/sim"
)

// WritePositions writes the two-column position trace, one "t, x" row per
// sample in time order, no header.
func WritePositions(w io.Writer, records []sim.Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintf(w, "%s, %s\n", formatFloat(rec.T), formatFloat(rec.State.X)); err != nil {
			return err
		}
	}
	return nil
}

// ExportPositions writes the position trace to a file.
func ExportPositions(path string, records []sim.Record) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WritePositions(file, records)
}
