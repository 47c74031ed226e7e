package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/SlideStack/internal/model"
)

// SnapshotVersion is written into every snapshot file.
const SnapshotVersion = "1.0.0"

// Snapshot is a computed deck: the config it was laid out with plus one
// layout per page. A snapshot can be rendered again without the source
// spreadsheet.
type Snapshot struct {
	Version   string           `json:"version"`
	CreatedAt string           `json:"created_at"`
	Source    string           `json:"source,omitempty"`
	Config    model.DeckConfig `json:"config"`
	Layouts   []model.Layout   `json:"layouts"`
}

// SaveSnapshot writes cfg and layouts to path as indented JSON.
func SaveSnapshot(path, source string, cfg model.DeckConfig, layouts []model.Layout) error {
	snap := Snapshot{
		Version:   SnapshotVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Source:    source,
		Config:    cfg,
		Layouts:   layouts,
	}
	if snap.Layouts == nil {
		snap.Layouts = []model.Layout{}
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot reads a snapshot and validates its config.
func LoadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot file: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot file: %w", err)
	}
	if snap.Version == "" {
		return Snapshot{}, fmt.Errorf("invalid snapshot file: missing version field")
	}
	if err := snap.Config.Validate(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
