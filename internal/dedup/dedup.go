package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

type seenEntry struct {
	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`
}

// SeenCache remembers which job URLs were already scraped so repeat runs
// skip the detail fetch entirely. Entries expire after thirty days; the
// board cycles postings faster than that.
type SeenCache struct {
	mu       sync.Mutex
	filePath string
	seen     map[string]int64
	log      *zap.SugaredLogger
}

const expiryMs = int64(30 * 24 * 60 * 60 * 1000)

// NewSeenCache creates or loads the cache under cacheDir.
func NewSeenCache(cacheDir string, log *zap.SugaredLogger) *SeenCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		log.Warnf("⚠️ Failed to create cache directory: %v", err)
	}
	cache := &SeenCache{
		filePath: filepath.Join(cacheDir, "seen_jobs.json"),
		seen:     make(map[string]int64),
		log:      log,
	}
	cache.load()
	return cache
}

// IsSeen checks if a URL has already been processed.
// Mutex because the cache outlives a single run and maps are not thread-safe.
func (c *SeenCache) IsSeen(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, exists := c.seen[url]
	return exists
}

// Add marks URLs as processed and persists the cache when anything changed.
func (c *SeenCache) Add(urls ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixMilli()
	changed := false
	for _, url := range urls {
		if _, exists := c.seen[url]; !exists {
			c.seen[url] = now
			changed = true
		}
	}
	if changed {
		c.save()
	}
}

func (c *SeenCache) load() {
	data, err := os.ReadFile(c.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warnf("⚠️ Failed to read seen_jobs.json: %v", err)
		}
		return
	}

	var entries []seenEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Warnf("⚠️ Failed to parse seen_jobs.json: %v", err)
		return
	}

	cutoff := time.Now().UnixMilli() - expiryMs
	loaded := 0
	for _, e := range entries {
		if e.Timestamp > cutoff {
			c.seen[e.URL] = e.Timestamp
			loaded++
		}
	}
	c.log.Infof("📋 Loaded %d previously seen jobs (%d expired and removed)", loaded, len(entries)-loaded)
}

func (c *SeenCache) save() {
	entries := make([]seenEntry, 0, len(c.seen))
	for url, ts := range c.seen {
		entries = append(entries, seenEntry{URL: url, Timestamp: ts})
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		c.log.Warnf("⚠️ Failed to marshal seen jobs: %v", err)
		return
	}
	if err := os.WriteFile(c.filePath, data, 0644); err != nil {
		c.log.Warnf("⚠️ Failed to write seen_jobs.json: %v", err)
	}
}
