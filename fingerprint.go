package stash

import (
	"encoding/hex"
	"fmt"
	"sort"
)

// fieldSep separates fingerprint fields so adjacent fields cannot collide
// across their boundary.
var fieldSep = []byte{0}

// Fingerprint derives the cache key for a (source, identifier, options)
// triple as a lowercase hex digest of the configured hash function.
//
// Option keys are hashed in sorted order, so semantically equal option maps
// produce the same key regardless of construction order. The function is
// pure; exporting it is useful for debugging and logging.
func (c *Cache) Fingerprint(source, identifier string, options map[string]string) string {
	h := c.hashFunc()

	h.Write([]byte(source))
	h.Write(fieldSep)
	h.Write([]byte(identifier))
	h.Write(fieldSep)

	// Hash options in sorted order for determinism
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(h, "%d", len(keys))
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write(fieldSep)
		h.Write([]byte(options[k]))
		h.Write(fieldSep)
	}

	return hex.EncodeToString(h.Sum(nil))
}
