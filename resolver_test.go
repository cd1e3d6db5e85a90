package stash

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestDefaultDirMemoized(t *testing.T) {
	var discoveries atomic.Int64
	cache, _ := newTestCache(t, WithDiscover(func(name string) (string, bool) {
		discoveries.Add(1)
		return testDefaultDir, true
	}))

	for i := 0; i < 3; i++ {
		if dir := cache.defaultDir(); dir != testDefaultDir {
			t.Fatalf("defaultDir = %q, want %q", dir, testDefaultDir)
		}
	}

	if discoveries.Load() != 1 {
		t.Errorf("Discovery invoked %d times, want 1", discoveries.Load())
	}
}

func TestDefaultDirFallsBackToTempDir(t *testing.T) {
	cache, _ := newTestCache(t, WithDiscover(func(string) (string, bool) {
		return "", false
	}))

	if dir := cache.defaultDir(); dir != testTempDir {
		t.Fatalf("defaultDir = %q, want temp directory %q", dir, testTempDir)
	}
}

func TestExplicitDirSkipsDiscovery(t *testing.T) {
	var discoveries atomic.Int64
	cache, _ := newTestCache(t, WithDiscover(func(string) (string, bool) {
		discoveries.Add(1)
		return testDefaultDir, true
	}))

	var count atomic.Int64
	req := Request[compiled]{
		Source:     "let x=1",
		Identifier: "v1",
		Dir:        "/pinned",
		Transform:  countingTransform(&count),
	}
	if _, err := Do(context.Background(), cache, req); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	if discoveries.Load() != 0 {
		t.Errorf("Discovery invoked %d times for a pinned directory, want 0", discoveries.Load())
	}
}

func TestDiscoverUserCacheDir(t *testing.T) {
	dir, ok := DiscoverUserCacheDir("stash-test")
	if !ok {
		t.Skip("no user cache directory on this host")
	}
	if filepath.Base(dir) != "stash-test" {
		t.Errorf("Expected the cache name as the final path element, got %q", dir)
	}
}

func TestDiscoveryPassesCacheName(t *testing.T) {
	var gotName string
	cache, err := New("myapp", WithDiscover(func(name string) (string, bool) {
		gotName = name
		return testDefaultDir, true
	}))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	cache.defaultDir()
	if gotName != "myapp" {
		t.Errorf("Discovery received name %q, want %q", gotName, "myapp")
	}
}
