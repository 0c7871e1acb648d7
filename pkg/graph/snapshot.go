package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Snapshot - Atomic Graph Unit
// =============================================================================

// Snapshot is the canonical serialization format for a knowledge graph.
// A snapshot replaces the previous one as a unit; components never merge
// snapshots partially.
type Snapshot struct {
	Nodes         []Node         `json:"nodes" bson:"nodes"`
	Relationships []Relationship `json:"relationships" bson:"relationships"`
}

// NodeIDs returns the set of node ids present in the snapshot.
func (s *Snapshot) NodeIDs() map[string]bool {
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// NodeByID returns the node with the given id, or false if absent.
func (s *Snapshot) NodeByID(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalSnapshot serializes a Snapshot to pretty-printed JSON bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot deserializes JSON bytes into a Snapshot and validates it.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ReadSnapshot reads and validates a Snapshot from r.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return UnmarshalSnapshot(data)
}

// ReadSnapshotFile reads and validates a Snapshot from a JSON file.
func ReadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalSnapshot(data)
}

// WriteSnapshotFile writes a Snapshot to a JSON file.
func WriteSnapshotFile(s *Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
