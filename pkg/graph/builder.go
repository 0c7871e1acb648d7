package graph

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Builder - Snapshot Construction
// =============================================================================

// Builder assembles a Snapshot incrementally. Ids are minted with UUIDv4
// unless supplied by the caller. Builders are single-use: Build returns the
// accumulated snapshot and the builder should then be discarded.
type Builder struct {
	nodes []Node
	rels  []Relationship
	now   func() time.Time
}

// NewBuilder creates an empty snapshot builder.
func NewBuilder() *Builder {
	return &Builder{now: func() time.Time { return time.Now().UTC() }}
}

// AddNode appends a node with a minted id and returns the id.
func (b *Builder) AddNode(t NodeType, label string, props map[string]any) string {
	id := uuid.NewString()
	b.AddNodeWithID(id, t, label, props)
	return id
}

// AddNodeWithID appends a node with a caller-supplied id.
func (b *Builder) AddNodeWithID(id string, t NodeType, label string, props map[string]any) {
	ts := b.now()
	b.nodes = append(b.nodes, Node{
		ID:         id,
		Type:       t,
		Label:      label,
		Properties: props,
		CreatedAt:  ts,
		UpdatedAt:  ts,
	})
}

// Relate appends a relationship between two existing node ids and returns
// the minted relationship id.
func (b *Builder) Relate(t RelationType, sourceID, targetID string) string {
	id := uuid.NewString()
	ts := b.now()
	b.rels = append(b.rels, Relationship{
		ID:        id,
		Type:      t,
		SourceID:  sourceID,
		TargetID:  targetID,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	return id
}

// Build validates and returns the accumulated snapshot.
func (b *Builder) Build() (*Snapshot, error) {
	s := &Snapshot{Nodes: b.nodes, Relationships: b.rels}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
