package models

import (
	"strings"
	"time"
)

// DirRecord is a visited directory as stored in the dirs table
type DirRecord struct {
	ID           int64
	Path         string    // Absolute, cleaned path (unique)
	Score        int64     // Visit count, starts at 1
	LastAccessed time.Time // Most recent recorded visit (second precision)
}

// IsUnder reports whether the record's path starts with dir.
// This is a plain string prefix test, so "/src" matches "/srcfoo" too.
func (d *DirRecord) IsUnder(dir string) bool {
	return dir != "" && strings.HasPrefix(d.Path, dir)
}

// Age returns how long ago the directory was last visited, relative to now.
// Never negative.
func (d *DirRecord) Age(now time.Time) time.Duration {
	if d.LastAccessed.IsZero() || now.Before(d.LastAccessed) {
		return 0
	}
	return now.Sub(d.LastAccessed)
}
