// Package cache stores per-file symbol outlines on disk, keyed by a
// digest of the file's content, so repeated workspace scans skip files
// that have not changed.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"phpls/internal/symbols"
)

// schemaVersion invalidates every entry when the Entry format changes.
const schemaVersion uint16 = 1

// Digest identifies file content.
type Digest [sha256.Size]byte

// HashBytes digests raw content.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// Entry is one cached outline.
type Entry struct {
	Schema  uint16                `msgpack:"schema"`
	Path    string                `msgpack:"path"`
	Hash    Digest                `msgpack:"hash"`
	Symbols []symbols.Information `msgpack:"symbols"`
}

// DiskCache stores entries under a per-user cache directory. Safe for
// concurrent use.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes the cache at the standard XDG location for app.
func Open(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app, "symbols")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, hex.EncodeToString(key[:])+".bin")
}

// Load returns the entry for key. ok is false for a miss, a schema
// mismatch, or a hash mismatch; only a real read/decode problem is an
// error.
func (c *DiskCache) Load(key Digest) (*Entry, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		// A corrupt entry is as good as a miss.
		return nil, false, nil
	}
	if entry.Schema != schemaVersion || entry.Hash != key {
		return nil, false, nil
	}
	return &entry, true, nil
}

// Store writes the entry under its content hash, atomically via rename.
func (c *DiskCache) Store(entry *Entry) error {
	entry.Schema = schemaVersion
	data, err := msgpack.Marshal(entry)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", entry.Path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	final := c.pathFor(entry.Hash)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, final)
}
