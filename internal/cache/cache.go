// Package cache remembers the content hash of each emitted artifact so an
// unchanged artifact is not rewritten.
//
// The generated artifact feeds mtime-based rebuild checks downstream:
// rewriting identical bytes would retrigger a doctest rebuild on every run.
// Metadata lives in BoltDB keyed by the artifact's absolute path.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const (
	// DefaultCacheDir is the default cache directory name
	DefaultCacheDir = ".dtgen-cache"

	// bucketName is the BoltDB bucket name for artifact entries
	bucketName = "artifacts"
)

// Cache manages emitted-artifact metadata using BoltDB
type Cache struct {
	db *bbolt.DB
}

// New creates a new cache instance
// If cacheDir is empty, uses DefaultCacheDir in current working directory
func New(cacheDir string) (*Cache, error) {
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

	dbPath := filepath.Join(cacheDir, "cache.db")
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database
func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}

	return nil
}

// Get retrieves the entry for an artifact path
// Returns nil if cache miss
func (c *Cache) Get(path string) (*Entry, error) {
	var entry Entry
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data := b.Get([]byte(path))
		if data == nil {
			return nil // Cache miss
		}

		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return nil, err
	}

	if entry.Hash == "" {
		return nil, nil // Cache miss
	}

	return &entry, nil
}

// Store saves the entry for an artifact path
func (c *Cache) Store(path string, content []byte, suite, toolchain string) error {
	entry := Entry{
		Hash:      HashContent(content),
		Path:      path,
		Suite:     suite,
		Toolchain: toolchain,
		Timestamp: time.Now(),
	}

	err := c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}

		return b.Put([]byte(path), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

// Fresh reports whether the artifact at path already holds content.
// A stale or missing cache entry, or a file that was touched since the entry
// was stored, both count as not fresh.
func (c *Cache) Fresh(path string, content []byte) bool {
	entry, err := c.Get(path)
	if err != nil || entry == nil {
		return false
	}

	if entry.Hash != HashContent(content) {
		return false
	}

	// The entry may outlive the file it describes
	onDisk, err := HashFile(path)
	if err != nil {
		return false
	}

	return onDisk == entry.Hash
}

// Clear removes all cache entries
func (c *Cache) Clear() error {
	err := c.db.Update(func(tx *bbolt.Tx) error {
		return tx.DeleteBucket([]byte(bucketName))
	})
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Stats returns the number of cached artifact entries
func (c *Cache) Stats() (int, error) {
	var count int
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		count = b.Stats().KeyN
		return nil
	})

	return count, err
}
