package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
)

// hashCacheSize bounds the in-process hash memo. Watch mode rehashes the same
// file set on every event, so a few thousand entries covers real projects.
const hashCacheSize = 4096

// hashKey identifies file content cheaply. Size and mtime invalidate the memo
// whenever the file could have changed, so a stale hash is never returned.
type hashKey struct {
	path  string
	size  int64
	mtime int64
}

// Hasher computes content digests of files, memoizing results keyed by
// (path, size, mtime) to avoid rehashing unchanged files within one process.
type Hasher struct {
	memo *lru.Cache[hashKey, string]
}

// NewHasher creates a Hasher with a bounded memo.
func NewHasher() (*Hasher, error) {
	memo, err := lru.New[hashKey, string](hashCacheSize)
	if err != nil {
		return nil, err
	}

	return &Hasher{memo: memo}, nil
}

// Hash returns the hex SHA-256 of the file's content, or "" on any read
// failure. Failures are deliberately silent: the caller treats "" as
// "always changed", which forces a rebuild instead of a stale skip.
func (h *Hasher) Hash(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}

	key := hashKey{path: path, size: info.Size(), mtime: info.ModTime().UnixNano()}
	if digest, ok := h.memo.Get(key); ok {
		return digest
	}

	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	sum := sha256.New()
	if _, err := io.Copy(sum, f); err != nil {
		return ""
	}

	digest := hex.EncodeToString(sum.Sum(nil))
	h.memo.Add(key, digest)

	return digest
}
