package report

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/pharma-organizers/internal/event"
	"github.com/pfrederiksen/pharma-organizers/internal/storage"
)

// WriteFiles replaces the dataset and audit log files. An empty logPath skips
// the audit log.
func WriteFiles(datasetPath, logPath string, records []*event.Record, log AuditLog) error {
	err := storage.WriteFile(datasetPath, func(w io.Writer) error {
		return WriteDataset(w, records)
	})
	if err != nil {
		return fmt.Errorf("saving dataset: %w", err)
	}

	if logPath == "" {
		return nil
	}

	err = storage.WriteFile(logPath, func(w io.Writer) error {
		return WriteAuditLog(w, log)
	})
	if err != nil {
		return fmt.Errorf("saving audit log: %w", err)
	}
	return nil
}

// LoadDataset reads a dataset file written by WriteFiles
func LoadDataset(path string) ([]*event.Record, error) {
	f, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadDataset(f)
}
