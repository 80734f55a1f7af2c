package config

import (
	"time"

	"github.com/coldstore/snapkeeper/internal/retention"
)

type Config struct {
	Volumes  []VolumeConfig   `yaml:"volumes"`
	Policy   retention.Policy `yaml:"policy"`
	Gate     GateConfig       `yaml:"gate"`
	Schedule ScheduleConfig   `yaml:"schedule"`
	Metrics  MetricsConfig    `yaml:"metrics"`
	Logging  LoggingConfig    `yaml:"logging"`
}

// VolumeConfig identifies one independently rotated storage unit.
type VolumeConfig struct {
	ID      string `yaml:"id"`
	Path    string `yaml:"path"`    // mount path (btrfs) or pool/dataset (zfs)
	Prefix  string `yaml:"prefix"`  // snapshot name prefix
	Backend string `yaml:"backend"` // "btrfs" or "zfs"
}

// GateConfig holds the preconditions for starting a rotation run.
type GateConfig struct {
	RequireMount bool        `yaml:"requireMount"`
	MarkerPath   string      `yaml:"markerPath"` // transfer-complete marker; empty disables
	Watch        WatchConfig `yaml:"watch"`
}

type WatchConfig struct {
	Mode         string        `yaml:"mode"`         // "auto", "poll", "fsnotify"
	PollInterval time.Duration `yaml:"pollInterval"` // e.g. 5s
}

type ScheduleConfig struct {
	Cron string `yaml:"cron"` // e.g. "30 3 * * *"
}

type MetricsConfig struct {
	Listen string `yaml:"listen"` // e.g. ":9823"; empty disables
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "info", "debug", etc.
	Format string `yaml:"format"` // "json", "text"
}
