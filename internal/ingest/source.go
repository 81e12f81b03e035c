package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ReadRecords decodes a JSON array. Elements that are not objects come back
// as nil records in their original position.
func ReadRecords(r io.Reader) ([]Record, error) {
	var raw []json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	return DecodeRecords(raw), nil
}

// ReadFile reads a JSON array of records from path. An empty path yields no
// records.
func ReadFile(path string) ([]Record, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// LoadBatch reads the events and predictions files into one batch.
func LoadBatch(eventsPath, predictionsPath string) (Batch, error) {
	events, err := ReadFile(eventsPath)
	if err != nil {
		return Batch{}, err
	}

	predictions, err := ReadFile(predictionsPath)
	if err != nil {
		return Batch{}, err
	}

	return Batch{Events: events, Predictions: predictions}, nil
}
