package stream

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/clearhouse-io/clearhouse/internal/engine"
)

// Writer serializes account snapshots as CSV. Row order follows the input
// slice; consumers needing deterministic output sort beforehand.
type Writer struct {
	csv *csv.Writer
}

// NewWriter wraps w for snapshot output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteSnapshots emits the header row followed by one row per snapshot.
func (w *Writer) WriteSnapshots(snapshots []engine.AccountSnapshot) error {
	if err := w.csv.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range snapshots {
		row := []string{s.Client, s.Available, s.Held, s.Total, strconv.FormatBool(s.Locked)}
		if err := w.csv.Write(row); err != nil {
			return fmt.Errorf("write client %s: %w", s.Client, err)
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}
