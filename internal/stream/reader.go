// Package stream moves transaction records between delimited files and the
// engine. The reader hands back one record per row; a malformed row is an
// error for that row only, so callers can keep consuming the stream.
package stream

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/clearhouse-io/clearhouse/internal/engine"
)

// Reader decodes transaction records from CSV input with a
// type,client,tx,amount header.
type Reader struct {
	csv  *csv.Reader
	cols map[string]int
	line int
}

// NewReader consumes the header row and prepares a record reader. A missing
// or unusable header makes the whole stream unusable.
func NewReader(r io.Reader) (*Reader, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Dispute rows often omit the trailing amount field entirely.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"type", "client", "tx"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing column: %s", required)
		}
	}

	return &Reader{csv: cr, cols: cols, line: 1}, nil
}

// Next returns the next record, io.EOF at the end of the stream, or a
// row-local error the caller may skip past.
func (r *Reader) Next() (engine.Record, error) {
	row, err := r.csv.Read()
	if err == io.EOF {
		return engine.Record{}, io.EOF
	}
	r.line++
	if err != nil {
		return engine.Record{}, fmt.Errorf("row %d: %w", r.line, err)
	}

	typ, err := engine.ParseRecordType(r.field(row, "type"))
	if err != nil {
		return engine.Record{}, fmt.Errorf("row %d: %w", r.line, err)
	}
	client, err := strconv.ParseUint(r.field(row, "client"), 10, 16)
	if err != nil {
		return engine.Record{}, fmt.Errorf("row %d: invalid client id: %w", r.line, err)
	}
	tx, err := strconv.ParseUint(r.field(row, "tx"), 10, 32)
	if err != nil {
		return engine.Record{}, fmt.Errorf("row %d: invalid tx id: %w", r.line, err)
	}

	return engine.Record{
		Type:   typ,
		Client: uint16(client),
		Tx:     uint32(tx),
		Amount: r.field(row, "amount"),
	}, nil
}

func (r *Reader) field(row []string, name string) string {
	idx, ok := r.cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
