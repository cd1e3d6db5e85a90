package stash

import (
	"context"
	"fmt"
	"hash"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Cache is a content-addressed, on-disk cache for the results of expensive,
// deterministic transforms. Given the same (source, identifier, options)
// triple it returns a previously persisted result instead of recomputing it.
type Cache struct {
	name     string
	fs       afero.Fs
	hashFunc HashFunc
	nowFunc  NowFunc
	discover DiscoverFunc
	tempDir  func() string
	log      zerolog.Logger

	resolveOnce sync.Once
	resolvedDir string
}

// HashFunc defines a function that creates a new hash.Hash instance.
type HashFunc func() hash.Hash

// NowFunc defines a function that returns the current time.
type NowFunc func() time.Time

// Option defines a function that configures a Cache.
type Option func(*Cache)

// New creates a cache with the given name. The name identifies the cache to
// the default-directory discovery collaborator (for example it becomes the
// subdirectory under the user cache directory). No directories are created
// until the first request needs them.
func New(name string, options ...Option) (*Cache, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: cache name must not be empty", ErrInvalidRequest)
	}

	cache := &Cache{
		name:     name,
		fs:       afero.NewOsFs(),
		hashFunc: defaultHashFunc,
		nowFunc:  time.Now,
		discover: DiscoverUserCacheDir,
		tempDir:  os.TempDir,
		log:      zerolog.Nop(),
	}

	// Apply options
	for _, option := range options {
		option(cache)
	}

	return cache, nil
}

// TransformFunc computes the result for a source and its options.
// It is only invoked on a cache miss.
type TransformFunc[T any] func(ctx context.Context, source string, options map[string]string) (T, error)

// Request describes a single cached transform invocation.
// A Request is owned by one call to Do and is not shared.
type Request[T any] struct {
	// Source is the literal content to transform, not a file path.
	Source string

	// Options parameterize the transform and contribute to the fingerprint.
	// May be nil.
	Options map[string]string

	// Identifier distinguishes cache generations, for example a transform
	// version string. Bumping it invalidates all prior entries.
	Identifier string

	// Dir pins an explicit cache directory. A request with a pinned
	// directory never falls back to the temp directory. When empty, the
	// default directory is resolved once per Cache and reused.
	Dir string

	// Compress stores the entry gzip-compressed. The flag selects the
	// on-disk suffix (.json vs .json.gz), so reads and writes must agree
	// on it for the lifetime of a cache directory.
	Compress bool

	// Transform is invoked on a cache miss. Its failure is surfaced to the
	// caller unmodified.
	Transform TransformFunc[T]
}

// Do returns the cached result for req, invoking req.Transform and
// persisting its result on a miss.
//
// When the target directory cannot be created or written and the request did
// not pin a directory, Do retries once against the system temp directory.
// The only errors a caller observes are a failed transform or a failure to
// write to the temp directory itself.
func Do[T any](ctx context.Context, c *Cache, req Request[T]) (T, error) {
	var zero T
	if req.Transform == nil {
		return zero, fmt.Errorf("%w: request has no transform", ErrInvalidRequest)
	}

	dir := req.Dir
	if dir == "" {
		dir = c.defaultDir()
	}

	return run(ctx, c, dir, req)
}

// run drives the lookup → create-dir → transform → persist loop against dir,
// with at most one fallback iteration against the temp directory.
func run[T any](ctx context.Context, c *Cache, dir string, req Request[T]) (T, error) {
	var zero T

	key := c.Fingerprint(req.Source, req.Identifier, req.Options)

	// A request may fall back at most once, and only when it did not pin a
	// directory and is not already targeting the temp directory.
	canFallback := req.Dir == "" && dir != c.tempDir()

	for {
		value, ok, err := readEntry[T](c, dir, key, req.Compress)
		if err != nil {
			// Corrupt entries self-heal: recompute and overwrite.
			c.log.Warn().Str("key", key).Err(err).Msg("discarding unreadable cache entry")
		}
		if ok {
			c.log.Debug().Str("key", key).Str("dir", dir).Msg("cache hit")
			return value, nil
		}
		c.log.Debug().Str("key", key).Str("dir", dir).Msg("cache miss")

		if err := c.fs.MkdirAll(dir, 0o755); err != nil {
			if canFallback {
				dir, canFallback = c.tempDir(), false
				c.log.Debug().Str("dir", dir).Err(err).Msg("cache directory not writable, falling back to temp directory")
				continue
			}
			return zero, fmt.Errorf("failed to create cache directory %s: %w", dir, err)
		}

		value, err = req.Transform(ctx, req.Source, req.Options)
		if err != nil {
			// A failed transform is not a storage problem; surface it
			// as-is and never fall back.
			return zero, err
		}

		if err := writeEntry(c, dir, key, req.Compress, value); err != nil {
			if canFallback {
				// The computed value is discarded; the retry re-runs
				// the whole loop, including the transform, against
				// the temp directory.
				dir, canFallback = c.tempDir(), false
				c.log.Debug().Str("dir", dir).Err(err).Msg("cache entry not writable, falling back to temp directory")
				continue
			}
			return zero, fmt.Errorf("failed to write cache entry %s: %w", key, err)
		}

		return value, nil
	}
}

// now returns the current time.
func (c *Cache) now() time.Time {
	return c.nowFunc()
}

// defaultHashFunc returns the default hash function (xxHash64).
func defaultHashFunc() hash.Hash {
	return xxhash.New()
}
