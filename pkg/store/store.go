// Package store persists and retrieves graph snapshots. Backends include
// an in-memory store for tests and CLI sessions and a MongoDB store for
// server deployments. The cached decorator layers a byte cache over any
// backend.
package store

import (
	"context"

	"github.com/artatlas/artgraph/pkg/graph"
)

// Store is the snapshot persistence contract. Implementations must be safe
// for concurrent use.
type Store interface {
	// GetSnapshot loads the subgraph reachable from rootID within depth
	// hops. A depth of 0 returns the root node alone. Missing roots fail
	// with a graph-not-found error.
	GetSnapshot(ctx context.Context, rootID string, depth int) (*graph.Snapshot, error)

	// PutSnapshot upserts the snapshot's nodes and relationships.
	PutSnapshot(ctx context.Context, snap *graph.Snapshot) error

	// DeleteNode removes a node and every relationship touching it.
	DeleteNode(ctx context.Context, nodeID string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
