package ledger

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSnapshotFile reads a YAML-formatted snapshot from the given path.
func LoadSnapshotFile(path string) (Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to open snapshot %s: %w", path, err)
	}
	defer file.Close()
	return LoadSnapshot(file)
}

// LoadSnapshot reads a YAML-formatted snapshot from the given reader.
func LoadSnapshot(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return Snapshot{}, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return snapshot, nil
}
