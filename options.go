package stash

import (
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// WithFs sets a custom filesystem for the cache.
// This is primarily useful for testing with in-memory filesystems.
//
// Example:
//
//	cache, err := stash.New("myapp", stash.WithFs(afero.NewMemMapFs()))
func WithFs(fs afero.Fs) Option {
	return func(c *Cache) {
		c.fs = fs
	}
}

// WithHashFunc sets a custom hash function for fingerprinting.
// The default is xxHash64, which provides excellent performance.
//
// Note: Changing the hash function will invalidate existing cache entries.
func WithHashFunc(hashFunc HashFunc) Option {
	return func(c *Cache) {
		c.hashFunc = hashFunc
	}
}

// WithNowFunc sets a custom time function for the cache.
// This is primarily useful for testing with deterministic timestamps.
func WithNowFunc(nowFunc NowFunc) Option {
	return func(c *Cache) {
		c.nowFunc = nowFunc
	}
}

// WithLogger sets the logger for cache events (hits, misses, fallbacks,
// discarded corrupt entries). The default logger discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Cache) {
		c.log = log
	}
}

// WithDiscover replaces the default-directory discovery collaborator.
// Discovery is queried at most once per Cache, and only for requests that
// do not pin an explicit directory.
func WithDiscover(discover DiscoverFunc) Option {
	return func(c *Cache) {
		c.discover = discover
	}
}

// WithTempDir replaces the system temp-directory lookup used for fallback.
// This is primarily useful for testing fallback behavior.
func WithTempDir(tempDir func() string) Option {
	return func(c *Cache) {
		c.tempDir = tempDir
	}
}
