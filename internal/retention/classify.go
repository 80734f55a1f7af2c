package retention

import (
	"fmt"
	"time"

	"github.com/coldstore/snapkeeper/internal/snapshot"
)

// Tier identifies which retention tier claimed a kept snapshot.
type Tier string

const (
	TierDaily   Tier = "daily"
	TierWeekly  Tier = "weekly"
	TierMonthly Tier = "monthly"
	TierYearly  Tier = "yearly"
)

// Age eligibility bounds in whole days. Daily is half-open on both sides;
// the periodic tiers have lower bounds only, so a snapshot old enough for
// yearly is still weekly- and monthly-eligible.
const (
	dailyMaxAge   = 7
	weeklyMinAge  = 7
	monthlyMinAge = 30
	yearlyMinAge  = 365
)

// Decision is the classification outcome for one snapshot.
type Decision struct {
	Snapshot snapshot.Snapshot
	Keep     bool
	Tier     Tier // set only when Keep
}

// Partition is the keep/delete split for one volume, newest-first.
type Partition struct {
	Decisions []Decision
}

// KeptNames returns the names kept, newest-first.
func (p Partition) KeptNames() []string {
	var names []string
	for _, d := range p.Decisions {
		if d.Keep {
			names = append(names, d.Snapshot.Name)
		}
	}
	return names
}

// DeleteNames returns the names to delete, newest-first.
func (p Partition) DeleteNames() []string {
	var names []string
	for _, d := range p.Decisions {
		if !d.Keep {
			names = append(names, d.Snapshot.Name)
		}
	}
	return names
}

// Classify partitions snaps (newest-first, as the catalog returns them)
// under p as of now. Deterministic: the same snapshot set, policy and now
// always produce the same partition.
//
// The daily tier keeps the newest KeepDaily snapshots younger than 7 days.
// Each periodic tier then keeps one representative per calendar bucket (ISO
// week, month, year), scanning oldest to newest up to the tier's capacity.
// Within each bucket the oldest snapshot is retained, which maximizes
// temporal spacing of the retained history. A bucket that already holds a
// kept snapshot gets no second representative. Everything unclaimed is
// deleted.
func Classify(snaps []snapshot.Snapshot, p Policy, now time.Time) Partition {
	claimed := make(map[string]Tier, len(snaps))

	dailyKept := 0
	for _, s := range snaps {
		if s.AgeDays(now) >= dailyMaxAge {
			continue
		}
		if dailyKept == p.KeepDaily {
			// Over the cap. No later tier accepts snapshots this young,
			// so it stays unclaimed and falls out as delete.
			continue
		}
		claimed[s.Name] = TierDaily
		dailyKept++
	}

	claimBuckets(snaps, now, claimed, TierWeekly, weeklyMinAge, p.KeepWeekly, weekKey)
	claimBuckets(snaps, now, claimed, TierMonthly, monthlyMinAge, p.KeepMonthly, monthKey)
	claimBuckets(snaps, now, claimed, TierYearly, yearlyMinAge, p.KeepYearly, yearKey)

	decisions := make([]Decision, 0, len(snaps))
	for _, s := range snaps {
		tier, keep := claimed[s.Name]
		decisions = append(decisions, Decision{Snapshot: s, Keep: keep, Tier: tier})
	}
	return Partition{Decisions: decisions}
}

// claimBuckets keeps the oldest snapshot of each eligible bucket, oldest
// buckets first, stopping after capacity buckets. Buckets already
// represented among kept snapshots are skipped.
func claimBuckets(snaps []snapshot.Snapshot, now time.Time, claimed map[string]Tier, tier Tier, minAge, capacity int, key func(time.Time) string) {
	if capacity <= 0 {
		return
	}

	represented := make(map[string]bool)
	for _, s := range snaps {
		if _, kept := claimed[s.Name]; kept {
			represented[key(s.Created)] = true
		}
	}

	// Scan oldest→newest: the first eligible snapshot seen in a bucket is
	// the oldest one in it, and the first capacity buckets encountered win.
	kept := 0
	for i := len(snaps) - 1; i >= 0 && kept < capacity; i-- {
		s := snaps[i]
		if _, already := claimed[s.Name]; already {
			continue
		}
		if s.AgeDays(now) < minAge {
			continue
		}
		k := key(s.Created)
		if represented[k] {
			continue
		}
		claimed[s.Name] = tier
		represented[k] = true
		kept++
	}
}

// weekKey buckets an instant by ISO calendar week.
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

func monthKey(t time.Time) string { return t.Format("2006-01") }

func yearKey(t time.Time) string { return t.Format("2006") }
