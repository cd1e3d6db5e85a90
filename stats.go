package stash

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// Stats summarizes the entries in one cache directory.
type Stats struct {
	Entries     int           // Total number of cache entries
	TotalSize   int64         // Total size of all entries in bytes
	OldestEntry time.Duration // Age of the oldest entry
	NewestEntry time.Duration // Age of the newest entry
}

// Entry describes a single cache entry on disk, for iteration.
type Entry struct {
	Key        string
	Path       string
	Size       int64
	Compressed bool
	ModTime    time.Time
}

// Stats returns statistics about the entries in dir.
// A directory that does not exist yields zero stats, not an error.
func (c *Cache) Stats(dir string) (Stats, error) {
	entries, err := c.Entries(dir)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{}
	var oldest, newest time.Time

	for _, entry := range entries {
		stats.Entries++
		stats.TotalSize += entry.Size

		if oldest.IsZero() || entry.ModTime.Before(oldest) {
			oldest = entry.ModTime
		}
		if newest.IsZero() || entry.ModTime.After(newest) {
			newest = entry.ModTime
		}
	}

	now := c.now()
	if !oldest.IsZero() {
		stats.OldestEntry = now.Sub(oldest)
	}
	if !newest.IsZero() {
		stats.NewestEntry = now.Sub(newest)
	}

	return stats, nil
}

// Entries lists the cache entries in dir. Files that do not carry an entry
// suffix are skipped.
func (c *Cache) Entries(dir string) ([]Entry, error) {
	exists, err := afero.DirExists(c.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to check cache directory %s: %w", dir, err)
	}
	if !exists {
		return nil, nil
	}

	var entries []Entry

	err = afero.Walk(c.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		key, compressed, ok := splitEntryName(filepath.Base(path))
		if !ok {
			return nil
		}

		entries = append(entries, Entry{
			Key:        key,
			Path:       path,
			Size:       info.Size(),
			Compressed: compressed,
			ModTime:    info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk cache directory %s: %w", dir, err)
	}

	return entries, nil
}

// splitEntryName splits an entry file name into its key and compression flag.
func splitEntryName(name string) (key string, compressed, ok bool) {
	switch {
	case strings.HasSuffix(name, compressedEntrySuffix):
		return strings.TrimSuffix(name, compressedEntrySuffix), true, true
	case strings.HasSuffix(name, entrySuffix):
		return strings.TrimSuffix(name, entrySuffix), false, true
	}
	return "", false, false
}
