package graph

import (
	"github.com/artatlas/artgraph/pkg/errors"
)

// Validate checks the snapshot's structural invariants. It is the single
// ingestion gate: callers validate once, before a snapshot reaches the layout
// engine or interaction manager.
//
// Checks, in order:
//   - node ids are non-empty and unique
//   - node types are known
//   - type-specific required properties are present
//   - relationship ids are non-empty and unique
//   - relationship types are known
//   - every relationship endpoint references a node in this snapshot
//
// The first violation is returned as a coded error; validation never mutates
// the snapshot.
func (s *Snapshot) Validate() error {
	seen := make(map[string]bool, len(s.Nodes))
	for i := range s.Nodes {
		n := &s.Nodes[i]
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidSnapshot, "node at index %d has empty id", i)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true

		if err := validateNodeType(n); err != nil {
			return err
		}
	}

	relSeen := make(map[string]bool, len(s.Relationships))
	for i := range s.Relationships {
		r := &s.Relationships[i]
		if r.ID == "" {
			return errors.New(errors.ErrCodeInvalidSnapshot, "relationship at index %d has empty id", i)
		}
		if relSeen[r.ID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "duplicate relationship id %q", r.ID)
		}
		relSeen[r.ID] = true

		if !knownRelationType(r.Type) {
			return errors.New(errors.ErrCodeInvalidRelationType, "relationship %s has unknown type %q", r.ID, r.Type)
		}
		if !seen[r.SourceID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "relationship %s references unknown source node %q", r.ID, r.SourceID)
		}
		if !seen[r.TargetID] {
			return errors.New(errors.ErrCodeInvalidSnapshot, "relationship %s references unknown target node %q", r.ID, r.TargetID)
		}
	}

	return nil
}

func validateNodeType(n *Node) error {
	known := false
	for _, t := range NodeTypes {
		if n.Type == t {
			known = true
			break
		}
	}
	if !known {
		return errors.New(errors.ErrCodeInvalidNodeType, "node %s has unknown type %q", n.ID, n.Type)
	}

	for _, key := range RequiredProperties[n.Type] {
		if _, ok := n.Properties[key]; !ok {
			return errors.New(errors.ErrCodeMissingProperty, "node %s (%s) missing required property %q", n.ID, n.Type, key)
		}
	}
	return nil
}

func knownRelationType(t RelationType) bool {
	for _, rt := range RelationTypes {
		if t == rt {
			return true
		}
	}
	return false
}
