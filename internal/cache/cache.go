// Package cache implements the build cache used to skip unchanged platform
// builds.
//
// The cache maps a build key (derived from platform, configuration and
// optimization level) to a set of source file content hashes. Before a build,
// the orchestrator asks which files changed since the last successful build;
// if none did, the whole build is skipped. The cache never drives partial
// compilation; per-file incrementality is the job of the wrapped toolchain
// (gradle, npm, ...).
//
// Metadata is persisted as a single JSON file that is rewritten wholesale on
// every update. This is adequate for single-user, single-process CLI use and
// is intentionally not safe against two concurrent plhub invocations writing
// the same file.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultCacheDir is the cache directory name inside a plhub root.
	DefaultCacheDir = ".build_cache"

	// metadataFile holds the (key, path) -> hash mappings.
	metadataFile = "cache_metadata.json"
)

// BuildCache tracks source file content hashes per build key.
type BuildCache struct {
	dir      string
	metadata map[string]map[string]string
	hasher   *Hasher
}

// New opens (or creates) a build cache rooted at cacheDir.
// If cacheDir is empty, DefaultCacheDir under the working directory is used.
func New(cacheDir string) (*BuildCache, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		cacheDir = filepath.Join(cwd, DefaultCacheDir)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	hasher, err := NewHasher()
	if err != nil {
		return nil, err
	}

	c := &BuildCache{
		dir:    cacheDir,
		hasher: hasher,
	}
	c.metadata = c.loadMetadata()

	return c, nil
}

// Dir returns the cache directory.
func (c *BuildCache) Dir() string {
	return c.dir
}

// loadMetadata reads the metadata file. A missing or corrupt file yields an
// empty cache, forcing full rebuilds rather than failing the command.
func (c *BuildCache) loadMetadata() map[string]map[string]string {
	data, err := os.ReadFile(filepath.Join(c.dir, metadataFile))
	if err != nil {
		return make(map[string]map[string]string)
	}

	var meta map[string]map[string]string
	if err := json.Unmarshal(data, &meta); err != nil || meta == nil {
		return make(map[string]map[string]string)
	}

	return meta
}

// saveMetadata rewrites the whole metadata file. A write failure leaves the
// in-memory state ahead of disk; the worst outcome is a redundant rebuild on
// the next invocation, never an incorrect skip.
func (c *BuildCache) saveMetadata() error {
	data, err := json.MarshalIndent(c.metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cache metadata: %w", err)
	}

	if err := os.WriteFile(filepath.Join(c.dir, metadataFile), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache metadata: %w", err)
	}

	return nil
}

// FileHash returns the content hash of path, or "" if the file cannot be
// read. Callers treat "" as "always changed".
func (c *BuildCache) FileHash(path string) string {
	return c.hasher.Hash(path)
}

// HasChanged reports whether path differs from the hash recorded under key.
// Unknown paths and unreadable files always count as changed.
func (c *BuildCache) HasChanged(path, key string) bool {
	current := c.FileHash(path)
	if current == "" {
		return true
	}

	cached, ok := c.metadata[key][path]
	return !ok || cached != current
}

// ChangedFiles filters paths down to those that changed under key.
func (c *BuildCache) ChangedFiles(paths []string, key string) []string {
	changed := make([]string, 0, len(paths))
	for _, p := range paths {
		if c.HasChanged(p, key) {
			changed = append(changed, p)
		}
	}

	return changed
}

// Update records the current hash of path under key and persists the cache
// synchronously.
func (c *BuildCache) Update(path, key string) error {
	if c.metadata[key] == nil {
		c.metadata[key] = make(map[string]string)
	}

	c.metadata[key][path] = c.FileHash(path)

	return c.saveMetadata()
}

// Clear drops one key's entries, or everything when key is empty, and
// persists immediately.
func (c *BuildCache) Clear(key string) error {
	if key == "" {
		c.metadata = make(map[string]map[string]string)
	} else {
		delete(c.metadata, key)
	}

	return c.saveMetadata()
}

// Keys returns the build keys currently present in the cache.
func (c *BuildCache) Keys() []string {
	keys := make([]string, 0, len(c.metadata))
	for k := range c.metadata {
		keys = append(keys, k)
	}

	return keys
}

// Stats returns the number of build keys and tracked files.
func (c *BuildCache) Stats() (keys, files int) {
	for _, entry := range c.metadata {
		files += len(entry)
	}

	return len(c.metadata), files
}
