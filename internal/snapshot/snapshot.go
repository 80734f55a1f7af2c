// Package snapshot defines the snapshot value type and its name format.
package snapshot

import "time"

// Snapshot is one immutable, read-only, point-in-time copy of a volume.
// Created is the authoritative creation instant resolved by the catalog.
type Snapshot struct {
	Name    string
	Created time.Time
}

// AgeDays returns the whole days elapsed between Created and now,
// truncated toward zero.
func (s Snapshot) AgeDays(now time.Time) int {
	return int(now.Sub(s.Created).Hours() / 24)
}
