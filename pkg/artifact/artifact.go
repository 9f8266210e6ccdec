// Package artifact persists finished snapshots as a single JSON file for
// downstream consumers.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"marketsnap/pkg/market"
)

// DefaultPath is where snapshots land when no explicit path is configured.
const DefaultPath = "data/market_snapshot.json"

// Writer persists snapshots to a JSON file, replacing the previous artifact
// wholesale on every write.
type Writer struct {
	path string
}

// NewWriter constructs an artifact writer.
func NewWriter(path string) *Writer {
	if path == "" {
		path = DefaultPath
	}
	return &Writer{path: path}
}

// Path returns the artifact location.
func (w *Writer) Path() string {
	return w.path
}

// Write serializes the snapshot and replaces the artifact file.
func (w *Writer) Write(snapshot *market.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("artifact: nil snapshot")
	}
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("artifact: create dir %s: %w", dir, err)
		}
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("artifact: encode snapshot: %w", err)
	}
	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("artifact: write %s: %w", w.path, err)
	}
	return nil
}

// Read loads a snapshot artifact from disk.
func Read(path string) (*market.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", path, err)
	}
	var snapshot market.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("artifact: decode %s: %w", path, err)
	}
	return &snapshot, nil
}
