package dataflows

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cache is a file-backed cache with a fixed TTL, keyed by source, method and
// an arbitrary params value. Collectors use it so repeated pipeline runs for
// the same coin do not hammer the upstream APIs.
type Cache struct {
	dir     string
	ttl     time.Duration
	enabled bool
}

func NewCache(dir string, ttl time.Duration, enabled bool) *Cache {
	return &Cache{dir: dir, ttl: ttl, enabled: enabled}
}

func (c *Cache) path(source, method string, params any) string {
	data, _ := json.Marshal(params)
	sum := sha256.Sum256(data)
	return filepath.Join(c.dir, fmt.Sprintf("%s_%s_%x.json", source, method, sum[:8]))
}

// Get loads a cached value into result, reporting whether a fresh entry was
// found. Expired entries are removed on read.
func (c *Cache) Get(source, method string, params, result any) bool {
	if !c.enabled {
		return false
	}

	path := c.path(source, method, params)
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) > c.ttl {
		os.Remove(path)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, result) == nil
}

// Set stores a value. Failures are non-fatal: the cache only ever improves
// latency, never correctness.
func (c *Cache) Set(source, method string, params, value any) error {
	if !c.enabled {
		return nil
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path(source, method, params), data, 0o644)
}
