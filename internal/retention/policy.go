// Package retention classifies a volume's snapshots into keep and delete
// partitions under a tiered calendar-bucket policy. It is pure: no storage
// calls, no global state.
package retention

import "fmt"

// Policy holds per-tier capacities. A value of 0 disables that tier.
type Policy struct {
	KeepDaily   int `yaml:"keepDaily"`
	KeepWeekly  int `yaml:"keepWeekly"`
	KeepMonthly int `yaml:"keepMonthly"`
	KeepYearly  int `yaml:"keepYearly"`
}

func (p Policy) Validate() error {
	if p.KeepDaily < 0 || p.KeepWeekly < 0 || p.KeepMonthly < 0 || p.KeepYearly < 0 {
		return fmt.Errorf("retention counts must be non-negative, got %+v", p)
	}
	return nil
}

// MaxKept is the upper bound on snapshots any classification can keep.
func (p Policy) MaxKept() int {
	return p.KeepDaily + p.KeepWeekly + p.KeepMonthly + p.KeepYearly
}
