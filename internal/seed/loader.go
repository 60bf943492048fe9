package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// fileLoader implements Loader for local seed files.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based seed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a seed file from the local file system.
func (l *fileLoader) Load(ctx context.Context, path string) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.logger.Info().Str("file", path).Msg("loading seed file")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	records, err := decodeRecords(file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read seed file")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("records", len(records)).
		Msg("seed file loaded")

	return records, nil
}
