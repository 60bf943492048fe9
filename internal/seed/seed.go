// Package seed loads sample products into an empty store.
package seed

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Loader reads a JSON array of product records.
type Loader interface {
	// Load returns the raw records found at path. Paths ending in .gz are
	// gzip-compressed.
	Load(ctx context.Context, path string) ([]json.RawMessage, error)
}

// decodeRecords parses a JSON array, transparently decompressing gzip input.
func decodeRecords(r io.Reader, path string) ([]json.RawMessage, error) {
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader for %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	var records []json.RawMessage
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	return records, nil
}
