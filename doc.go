/*
	Package stash provides a content-addressed, on-disk cache for results of
	expensive, deterministic transforms.

Given a source text, an identifier and a set of options, stash either returns
a previously computed result from disk, or invokes the transform, persists
the result, and returns it.

# Overview

stash is a small caching library for memoizing a pure function of the shape
transform(source, options) across process runs. It is optimized for local
filesystem operations without distributed system complexity: no eviction, no
locking, no network-backed storage.

# Core Architecture

Each cache entry is a single file inside one flat directory:

	<dir>/<fingerprint>.json      uncompressed entry
	<dir>/<fingerprint>.json.gz   gzip-compressed entry

The fingerprint is a lowercase hex digest (xxHash64 by default) over the
source, the identifier and the options with sorted keys, so identical inputs
deterministically address the same entry across processes and time. The entry
content is the JSON-serialized transform result, optionally gzip-compressed;
the compression setting is encoded only in the file suffix.

# Key Features

  - Content-Addressed Storage: fast hashing (xxHash by default) derives
    deterministic entry names from the transform inputs
  - Generic Results: any JSON round-trip-safe result type, no interface
    assertions at the call site
  - Resilient Fallback: when the cache directory cannot be created or
    written, the request retries once against the system temp directory
  - Self-Healing Entries: corrupt or truncated entries are treated as
    misses and silently recomputed and overwritten
  - Pluggable Collaborators: filesystem (afero), hash function, directory
    discovery, temp directory and logger are all injectable

# Basic Usage

Creating a cache:

	cache, err := stash.New("myapp")
	if err != nil {
	    log.Fatalf("Failed to create cache: %v", err)
	}

Running a cached transform:

	result, err := stash.Do(ctx, cache, stash.Request[Compiled]{
	    Source:     src,
	    Options:    map[string]string{"target": "es2017"},
	    Identifier: "compiler-v1",
	    Compress:   true,
	    Transform: func(ctx context.Context, source string, options map[string]string) (Compiled, error) {
	        return compile(source, options)
	    },
	})

The first call invokes the transform and persists its result; subsequent
calls with byte-identical inputs return the persisted result without
invoking the transform again.

# Directory Resolution

A request may pin an explicit directory via Request.Dir. Requests that do
not pin one share a default directory, resolved at most once per Cache: the
discovery collaborator is asked for a named location (the user cache
directory by default), and the system temp directory is used when discovery
yields nothing. A pinned directory is never subject to fallback; an
unwritable pinned directory is a hard error.

# Configuration Options

stash can be configured with various options:

	cache, err := stash.New(
	    "myapp",
	    stash.WithHashFunc(myCustomHashFunc),
	    stash.WithFs(myCustomFs),
	    stash.WithLogger(logger),
	)

# Error Handling

Only two classes of error ever reach the caller of Do: a failed transform
(surfaced unmodified), and a failure to create or write to the terminal
fallback directory, which indicates the host has no writable scratch space
at all. Everything else — missing entries, undecodable entries, an
unwritable default directory — is recovered internally.

	result, err := stash.Do(ctx, cache, req)
	if err != nil {
	    // Either the transform failed, or no cache directory is writable.
	}
*/
package stash
