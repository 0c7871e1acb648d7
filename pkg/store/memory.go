package store

import (
	"context"
	"sync"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
)

// MemoryStore keeps the whole graph in process memory. It backs tests and
// single-session CLI usage where no database is available.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]graph.Node
	rels  map[string]graph.Relationship
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]graph.Node),
		rels:  make(map[string]graph.Relationship),
	}
}

// PutSnapshot upserts all nodes and relationships from the snapshot.
func (s *MemoryStore) PutSnapshot(ctx context.Context, snap *graph.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range snap.Nodes {
		s.nodes[n.ID] = n
	}
	for _, r := range snap.Relationships {
		s.rels[r.ID] = r
	}
	return nil
}

// GetSnapshot walks the relationship graph breadth-first from rootID,
// collecting nodes up to depth hops away and every relationship between
// collected nodes.
func (s *MemoryStore) GetSnapshot(ctx context.Context, rootID string, depth int) (*graph.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, ok := s.nodes[rootID]
	if !ok {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "node %q not found", rootID)
	}

	visited := map[string]bool{rootID: true}
	frontier := []string{rootID}
	snap := &graph.Snapshot{Nodes: []graph.Node{root}}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, r := range s.rels {
			var neighbor string
			switch {
			case containsID(frontier, r.SourceID):
				neighbor = r.TargetID
			case containsID(frontier, r.TargetID):
				neighbor = r.SourceID
			default:
				continue
			}
			if visited[neighbor] {
				continue
			}
			n, ok := s.nodes[neighbor]
			if !ok {
				continue
			}
			visited[neighbor] = true
			snap.Nodes = append(snap.Nodes, n)
			next = append(next, neighbor)
		}
		frontier = next
	}

	for _, r := range s.rels {
		if visited[r.SourceID] && visited[r.TargetID] {
			snap.Relationships = append(snap.Relationships, r)
		}
	}
	return snap, nil
}

// DeleteNode removes the node and all relationships touching it.
func (s *MemoryStore) DeleteNode(ctx context.Context, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[nodeID]; !ok {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	delete(s.nodes, nodeID)
	for id, r := range s.rels {
		if r.SourceID == nodeID || r.TargetID == nodeID {
			delete(s.rels, id)
		}
	}
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
