package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoVolumes is the fatal config error for an empty volume list. It is
// raised before any storage call is made.
var ErrNoVolumes = errors.New("no volumes configured")

// Validate checks everything that must hold before a run touches storage.
func (c *Config) Validate() error {
	if err := ValidateVolumes(c.Volumes); err != nil {
		return err
	}
	return c.Policy.Validate()
}

// ValidateVolumes checks the volume list on its own, for callers that build
// volume sets outside a full config.
func ValidateVolumes(volumes []VolumeConfig) error {
	if len(volumes) == 0 {
		return ErrNoVolumes
	}
	seen := make(map[string]bool, len(volumes))
	for _, v := range volumes {
		if err := v.Validate(); err != nil {
			return err
		}
		if seen[v.ID] {
			return fmt.Errorf("duplicate volume id %q", v.ID)
		}
		seen[v.ID] = true
	}
	return nil
}

func (v VolumeConfig) Validate() error {
	if v.ID == "" {
		return errors.New("volume id must not be empty")
	}
	if v.Path == "" {
		return fmt.Errorf("volume %s: path must not be empty", v.ID)
	}
	if v.Prefix == "" {
		return fmt.Errorf("volume %s: snapshot prefix must not be empty", v.ID)
	}
	if strings.ContainsAny(v.Prefix, "@/") {
		return fmt.Errorf("volume %s: prefix %q must not contain '@' or '/'", v.ID, v.Prefix)
	}
	switch v.Backend {
	case "btrfs", "zfs":
		return nil
	default:
		return fmt.Errorf("volume %s: unknown backend %q", v.ID, v.Backend)
	}
}
