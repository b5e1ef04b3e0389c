package saudijobs

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// dumper writes fetched HTML to disk for offline inspection when
// DUMP_HTML is on. Zero-value disabled.
type dumper struct {
	enabled bool
	dir     string
	seq     atomic.Int64
	log     *zap.SugaredLogger
}

func newDumper(enabled bool, dir string, log *zap.SugaredLogger) *dumper {
	d := &dumper{enabled: enabled, dir: dir, log: log}
	if enabled {
		if err := os.MkdirAll(dir, 0755); err != nil {
			d.log.Warnf("⚠️ Failed to create dump directory: %v", err)
			d.enabled = false
		}
	}
	return d
}

func (d *dumper) dump(kind, html string) {
	if !d.enabled {
		return
	}
	n := d.seq.Add(1)
	name := fmt.Sprintf("%s-%03d-%s.html", kind, n, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(d.dir, name)
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		d.log.Warnf("⚠️ [debug save failed] %v", err)
		return
	}
	d.log.Debugf("📸 Saved %s", path)
}
