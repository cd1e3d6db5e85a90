package stash

import (
	"os"
	"path/filepath"
)

// DiscoverFunc locates a named cache directory on the host system.
// It reports false when no location can be resolved.
type DiscoverFunc func(name string) (string, bool)

// DiscoverUserCacheDir resolves <user cache dir>/<name>, for example
// ~/.cache/<name> on Linux. It is the default discovery collaborator.
func DiscoverUserCacheDir(name string) (string, bool) {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		return "", false
	}
	return filepath.Join(base, name), true
}

// defaultDir resolves the directory used by requests that do not pin one.
// Discovery runs at most once per Cache; the resolved value is reused for
// the rest of the Cache's lifetime, even if it later becomes unwritable.
// Requests that pin a directory never touch this value.
func (c *Cache) defaultDir() string {
	c.resolveOnce.Do(func() {
		if dir, ok := c.discover(c.name); ok {
			c.resolvedDir = dir
			c.log.Debug().Str("dir", dir).Msg("resolved default cache directory")
			return
		}
		c.resolvedDir = c.tempDir()
		c.log.Debug().Str("dir", c.resolvedDir).Msg("discovery yielded no cache directory, using temp directory")
	})
	return c.resolvedDir
}
