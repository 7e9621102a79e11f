package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
)

// WriteDataset writes records as CSV with the event.Columns header
func WriteDataset(w io.Writer, records []*event.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(event.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return fmt.Errorf("writing row for %q: %w", rec.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadDataset reads a CSV written by WriteDataset. The header must match
// event.Columns exactly.
func ReadDataset(r io.Reader) ([]*event.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(event.Columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading header: empty dataset")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if !slices.Equal(header, event.Columns) {
		return nil, fmt.Errorf("unexpected header: %v", header)
	}

	var records []*event.Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(records)+1, err)
		}
		rec, err := event.FromRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}

	return records, nil
}
