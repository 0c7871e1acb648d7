package cache

import (
	"fmt"

	"github.com/artatlas/artgraph/pkg/graph"
)

// Keyer builds cache keys for the artifacts the engine produces. Splitting
// key construction from storage lets deployments scope keys per tenant
// without touching the backends.
type Keyer interface {
	// GraphKey identifies a snapshot fetched from a given root to a given
	// traversal depth.
	GraphKey(rootID string, depth int) string

	// LayoutKey identifies a layout result for a snapshot hash and the
	// viewport it was computed for.
	LayoutKey(snapshotHash string, bounds graph.Bounds) string

	// ExportKey identifies a rendered export for a snapshot hash and format.
	ExportKey(snapshotHash, format string) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// GraphKey uses the readable graph:{root}:{depth} form so operators can
// inspect and invalidate entries by hand.
func (k *DefaultKeyer) GraphKey(rootID string, depth int) string {
	return fmt.Sprintf("graph:%s:%d", rootID, depth)
}

func (k *DefaultKeyer) LayoutKey(snapshotHash string, bounds graph.Bounds) string {
	return hashKey("layout", snapshotHash, bounds.Width, bounds.Height)
}

func (k *DefaultKeyer) ExportKey(snapshotHash, format string) string {
	return hashKey("export", snapshotHash, format)
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation, so
// different users or galleries get separate cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) GraphKey(rootID string, depth int) string {
	return k.prefix + k.inner.GraphKey(rootID, depth)
}

func (k *ScopedKeyer) LayoutKey(snapshotHash string, bounds graph.Bounds) string {
	return k.prefix + k.inner.LayoutKey(snapshotHash, bounds)
}

func (k *ScopedKeyer) ExportKey(snapshotHash, format string) string {
	return k.prefix + k.inner.ExportKey(snapshotHash, format)
}
