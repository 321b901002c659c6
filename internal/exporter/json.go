package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// JSONWriter writes indented JSON documents, the layout downstream
// renderers and report assembly read.
type JSONWriter struct {
	logger *slog.Logger
}

// NewJSONWriter creates a JSON writer. A nil logger falls back to the
// process default.
func NewJSONWriter(logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{logger: logger}
}

// WriteJSON writes v to filePath as two-space indented JSON with a
// trailing newline.
func (w *JSONWriter) WriteJSON(filePath string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filePath, err)
	}

	w.logger.Debug("JSON file written",
		slog.String("path", filePath),
		slog.Int("bytes", len(data)))
	return nil
}
