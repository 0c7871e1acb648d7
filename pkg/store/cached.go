package store

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/artatlas/artgraph/pkg/cache"
	"github.com/artatlas/artgraph/pkg/graph"
	"github.com/artatlas/artgraph/pkg/observability"
)

// DefaultSnapshotTTL is how long cached snapshots stay fresh.
const DefaultSnapshotTTL = 15 * time.Minute

// CachedStore decorates a Store with a byte cache for GetSnapshot. Writes
// and deletes pass through and invalidate nothing beyond their own keys, so
// cached subgraphs may serve stale data until their TTL lapses.
type CachedStore struct {
	inner  Store
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// NewCachedStore wraps inner with the given cache. A nil keyer uses the
// default key scheme; a zero ttl uses DefaultSnapshotTTL.
func NewCachedStore(inner Store, c cache.Cache, keyer cache.Keyer, ttl time.Duration, logger *log.Logger) *CachedStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if ttl == 0 {
		ttl = DefaultSnapshotTTL
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CachedStore{inner: inner, cache: c, keyer: keyer, ttl: ttl, logger: logger}
}

// GetSnapshot serves from the cache when possible, falling through to the
// inner store on a miss. Cache failures degrade to the inner store rather
// than failing the read.
func (s *CachedStore) GetSnapshot(ctx context.Context, rootID string, depth int) (*graph.Snapshot, error) {
	key := s.keyer.GraphKey(rootID, depth)

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache read failed", "key", key, "error", err)
	}
	if hit {
		snap, err := graph.UnmarshalSnapshot(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, "graph")
			return snap, nil
		}
		s.logger.Warn("corrupt cache entry dropped", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "graph")

	snap, err := s.inner.GetSnapshot(ctx, rootID, depth)
	if err != nil {
		return nil, err
	}

	if data, err := graph.MarshalSnapshot(snap); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}
	return snap, nil
}

// PutSnapshot passes through to the inner store.
func (s *CachedStore) PutSnapshot(ctx context.Context, snap *graph.Snapshot) error {
	return s.inner.PutSnapshot(ctx, snap)
}

// DeleteNode passes through to the inner store.
func (s *CachedStore) DeleteNode(ctx context.Context, nodeID string) error {
	return s.inner.DeleteNode(ctx, nodeID)
}

// Close closes the cache and the inner store.
func (s *CachedStore) Close(ctx context.Context) error {
	if err := s.cache.Close(); err != nil {
		s.logger.Warn("cache close failed", "error", err)
	}
	return s.inner.Close(ctx)
}

// Ensure CachedStore implements Store.
var _ Store = (*CachedStore)(nil)
