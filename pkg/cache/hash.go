package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form prefix:hash(parts...). The full
// SHA-256 digest goes into the key so distinct snapshots, bounds and formats
// never collide.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(hash[:]))
}

// Hash fingerprints data with SHA-256, returned as 64 hex characters. It
// is how snapshot bytes are identified in layout and export cache keys.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
