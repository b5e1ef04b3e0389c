package dedup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-rapidapply-scraper/internal/logger"
)

func TestSeenCache_AddAndReload(t *testing.T) {
	dir := t.TempDir()

	cache := NewSeenCache(dir, logger.Nop())
	assert.False(t, cache.IsSeen("https://saudijobs.in/job-details?jobid=1"))

	cache.Add("https://saudijobs.in/job-details?jobid=1", "https://saudijobs.in/job-details?jobid=2")
	assert.True(t, cache.IsSeen("https://saudijobs.in/job-details?jobid=1"))
	assert.True(t, cache.IsSeen("https://saudijobs.in/job-details?jobid=2"))

	//a fresh instance reads the same file back
	reloaded := NewSeenCache(dir, logger.Nop())
	assert.True(t, reloaded.IsSeen("https://saudijobs.in/job-details?jobid=1"))
	assert.False(t, reloaded.IsSeen("https://saudijobs.in/job-details?jobid=99"))
}

func TestSeenCache_ExpiredEntriesDropOnLoad(t *testing.T) {
	dir := t.TempDir()
	now := time.Now().UnixMilli()
	entries := []seenEntry{
		{URL: "https://saudijobs.in/job-details?jobid=1", Timestamp: now - 40*24*60*60*1000},
		{URL: "https://saudijobs.in/job-details?jobid=2", Timestamp: now - 1000},
	}
	data, err := json.Marshal(entries)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), data, 0o644))

	cache := NewSeenCache(dir, logger.Nop())

	assert.False(t, cache.IsSeen("https://saudijobs.in/job-details?jobid=1"))
	assert.True(t, cache.IsSeen("https://saudijobs.in/job-details?jobid=2"))
}

func TestSeenCache_CorruptFileStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_jobs.json"), []byte("{not json"), 0o644))

	cache := NewSeenCache(dir, logger.Nop())

	assert.False(t, cache.IsSeen("anything"))
	cache.Add("https://saudijobs.in/job-details?jobid=5")
	assert.True(t, cache.IsSeen("https://saudijobs.in/job-details?jobid=5"))
}
