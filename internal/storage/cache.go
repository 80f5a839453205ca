package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// CacheEntry is one cached changelog rendering.
type CacheEntry struct {
	ID        string
	Key       string
	Format    string
	Output    string
	DiffCount int
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Cache stores rendered changelogs keyed by input digest and format.
type Cache struct {
	db      *DB
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCache creates a new cache instance
func NewCache(db *DB) (*Cache, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &Cache{db: db, encoder: encoder, decoder: decoder}, nil
}

// Close releases the zstd encoder and the decoder's worker goroutines.
func (c *Cache) Close() error {
	c.decoder.Close()
	return c.encoder.Close()
}

// Get retrieves a cached rendering.
// Returns false if not found or expired
func (c *Cache) Get(key string) (*CacheEntry, bool, error) {
	var (
		entry     CacheEntry
		output    []byte
		expiresAt string
		createdAt string
	)
	err := c.db.QueryRow(`
		SELECT id, cache_key, format, output, diff_count, expires_at, created_at
		FROM changelog_cache
		WHERE cache_key = ?
	`, key).Scan(&entry.ID, &entry.Key, &entry.Format, &output, &entry.DiffCount, &expiresAt, &createdAt)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("changelog cache lookup failed: %w", err)
	}

	entry.ExpiresAt, err = time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, false, fmt.Errorf("invalid expires_at format: %w", err)
	}
	if time.Now().After(entry.ExpiresAt) {
		// Entry is expired, delete it
		c.db.Exec("DELETE FROM changelog_cache WHERE cache_key = ?", key)
		return nil, false, nil
	}
	entry.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	raw, err := c.decoder.DecodeAll(output, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to decompress cached output: %w", err)
	}
	entry.Output = string(raw)
	return &entry, true, nil
}

// Set stores a rendering, replacing any previous entry for the key. A new
// row ID is assigned on every write.
func (c *Cache) Set(key, format, output string, diffCount, ttlSeconds int) (string, error) {
	now := time.Now().UTC()
	id := uuid.New().String()
	compressed := c.encoder.EncodeAll([]byte(output), nil)

	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO changelog_cache (id, cache_key, format, output, diff_count, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, key, format, compressed, diffCount,
		now.Add(time.Duration(ttlSeconds)*time.Second).Format(time.RFC3339),
		now.Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("failed to store changelog: %w", err)
	}

	c.db.logger.Debug("Cached changelog", map[string]interface{}{
		"key":          key,
		"format":       format,
		"raw_bytes":    len(output),
		"stored_bytes": len(compressed),
	})
	return id, nil
}

// Invalidate removes the entry for key.
func (c *Cache) Invalidate(key string) error {
	if _, err := c.db.Exec("DELETE FROM changelog_cache WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("failed to invalidate changelog cache: %w", err)
	}
	return nil
}

// InvalidateAll clears the cache.
func (c *Cache) InvalidateAll() error {
	if _, err := c.db.Exec("DELETE FROM changelog_cache"); err != nil {
		return fmt.Errorf("failed to clear changelog cache: %w", err)
	}
	return nil
}

// CleanupExpiredEntries removes all expired entries and reports how many
// were deleted.
func (c *Cache) CleanupExpiredEntries() (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := c.db.Exec("DELETE FROM changelog_cache WHERE expires_at < ?", now)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup changelog cache: %w", err)
	}
	n, _ := res.RowsAffected()

	c.db.logger.Debug("Cleaned up expired cache entries", map[string]interface{}{
		"removed": n,
	})
	return n, nil
}

// CacheStats summarizes cache usage.
type CacheStats struct {
	Entries     int `json:"entries"`
	StoredBytes int `json:"storedBytes"`
}

// Stats returns statistics about cache usage
func (c *Cache) Stats() (*CacheStats, error) {
	var stats CacheStats
	err := c.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(output)), 0)
		FROM changelog_cache
	`).Scan(&stats.Entries, &stats.StoredBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to get cache stats: %w", err)
	}
	return &stats, nil
}
