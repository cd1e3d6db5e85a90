package stash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Entry file suffixes. The compression setting of a request selects the
// suffix, so entries written with one setting are unreachable under the
// other.
const (
	entrySuffix           = ".json"
	compressedEntrySuffix = ".json.gz"
)

// EntryPath returns the on-disk path of the entry for key inside dir.
func (c *Cache) EntryPath(dir, key string, compress bool) string {
	suffix := entrySuffix
	if compress {
		suffix = compressedEntrySuffix
	}
	return filepath.Join(dir, key+suffix)
}

// readEntry loads and decodes the entry for key from dir.
// A missing entry yields (zero, false, nil). An entry that exists but cannot
// be decoded yields (zero, false, *DecodeError) so callers can report the
// corruption while still treating it as a miss.
func readEntry[T any](c *Cache, dir, key string, compress bool) (T, bool, error) {
	var zero T

	path := c.EntryPath(dir, key, compress)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("failed to read cache entry %s: %w", path, err)
	}

	value, err := decode[T](data, compress)
	if err != nil {
		return zero, false, &DecodeError{Path: path, Err: err}
	}

	return value, true, nil
}

// writeEntry encodes value and writes it as the entry for key inside dir.
// The write replaces any existing entry wholesale; it is idempotent for a
// deterministic transform, so concurrent same-key writers are safe.
func writeEntry[T any](c *Cache, dir, key string, compress bool, value T) error {
	data, err := encode(value, compress)
	if err != nil {
		return err
	}

	path := c.EntryPath(dir, key, compress)
	if err := afero.WriteFile(c.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
