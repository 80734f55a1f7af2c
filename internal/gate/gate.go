// Package gate decides whether a rotation run may be attempted: the btrfs
// volume mountpoints must actually be mounted, and when a transfer-complete
// marker is configured it must be present. The marker is the "transfer
// succeeded" signal written by the external transfer job.
package gate

import (
	"fmt"
	"os"

	"github.com/coldstore/snapkeeper/internal/config"
	"github.com/coldstore/snapkeeper/internal/logging"
)

type Gate struct {
	cfg config.GateConfig
	log logging.Logger
}

func New(cfg config.GateConfig, log logging.Logger) *Gate {
	return &Gate{cfg: cfg, log: log}
}

// Check reports whether a run may start, and why not.
func (g *Gate) Check(volumes []config.VolumeConfig) (bool, string) {
	if g.cfg.RequireMount {
		for _, v := range volumes {
			if v.Backend != "btrfs" {
				continue // pool names are not mountpoints
			}
			mounted, err := isMountpoint(v.Path)
			if err != nil {
				return false, fmt.Sprintf("cannot check mount %s: %v", v.Path, err)
			}
			if !mounted {
				return false, fmt.Sprintf("%s is not mounted", v.Path)
			}
		}
	}

	if g.cfg.MarkerPath != "" {
		if _, err := os.Stat(g.cfg.MarkerPath); err != nil {
			return false, fmt.Sprintf("transfer marker %s not present", g.cfg.MarkerPath)
		}
	}

	return true, ""
}

// Consume removes the transfer marker so the next run waits for a fresh
// transfer. Safe to call when no marker is configured.
func (g *Gate) Consume() {
	if g.cfg.MarkerPath == "" {
		return
	}
	if err := os.Remove(g.cfg.MarkerPath); err != nil && !os.IsNotExist(err) {
		g.log.Warn("could not remove transfer marker", "path", g.cfg.MarkerPath, "error", err)
	}
}
