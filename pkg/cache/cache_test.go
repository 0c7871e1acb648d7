package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/artatlas/artgraph/pkg/graph"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "graph:monet:2", []byte("payload"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	data, hit, err := c.Get(ctx, "graph:monet:2")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit || string(data) != "payload" {
		t.Fatalf("Get = %q hit=%v, want stored payload", data, hit)
	}

	if err := c.Delete(ctx, "graph:monet:2"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "graph:monet:2"); hit {
		t.Error("Get after Delete should miss")
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("expired entry should miss")
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// GraphKey is the readable graph:{root}:{depth} form
	if got := k.GraphKey("monet", 2); got != "graph:monet:2" {
		t.Errorf("GraphKey unexpected: %s", got)
	}

	// LayoutKey should include the viewport in the hash
	lk1 := k.LayoutKey("hash123", graph.Bounds{Width: 800, Height: 600})
	lk2 := k.LayoutKey("hash123", graph.Bounds{Width: 1024, Height: 600})
	if lk1 == lk2 {
		t.Error("Different bounds should produce different layout keys")
	}

	// ExportKey distinguishes formats
	ek1 := k.ExportKey("hash123", "svg")
	ek2 := k.ExportKey("hash123", "dot")
	if ek1 == ek2 {
		t.Error("Different formats should produce different export keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "user:123:")

	if got := scoped.GraphKey("monet", 2); got != "user:123:graph:monet:2" {
		t.Errorf("ScopedKeyer GraphKey unexpected: %s", got)
	}
	lk := scoped.LayoutKey("hash123", graph.Bounds{Width: 800, Height: 600})
	if !strings.HasPrefix(lk, "user:123:") {
		t.Errorf("ScopedKeyer LayoutKey should be prefixed: %s", lk)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	if got := scoped.GraphKey("x", 1); got != "prefix:graph:x:1" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(ErrNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return ErrNotFound
	})
	if err != ErrNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
