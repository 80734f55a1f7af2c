// Package rotation creates snapshots and applies the retention partition,
// one volume at a time.
package rotation

import (
	"fmt"
	"strings"
)

// VolumeReport is the outcome of one volume's rotation.
type VolumeReport struct {
	Volume          string
	Kept            []string
	Deleted         []string
	FailedDeletions []string
	Failed          bool   // the volume never reached Done
	FailureReason   string // "create" or "catalog" when Failed
}

// Report aggregates one rotation run across all volumes. It is the only
// output the notification side consumes.
type Report struct {
	Volumes []VolumeReport
}

// OverallOk reports whether no volume failed and no deletion failed.
func (r Report) OverallOk() bool {
	for _, v := range r.Volumes {
		if v.Failed || len(v.FailedDeletions) > 0 {
			return false
		}
	}
	return true
}

// Summary renders the report for the external notifier.
func (r Report) Summary() string {
	var b strings.Builder
	status := "OK"
	if !r.OverallOk() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "rotation %s across %d volume(s)\n", status, len(r.Volumes))
	for _, v := range r.Volumes {
		if v.Failed {
			fmt.Fprintf(&b, "  %s: FAILED (%s)\n", v.Volume, v.FailureReason)
			continue
		}
		fmt.Fprintf(&b, "  %s: kept %d, deleted %d", v.Volume, len(v.Kept), len(v.Deleted))
		if len(v.FailedDeletions) > 0 {
			fmt.Fprintf(&b, ", %d deletion(s) failed: %s",
				len(v.FailedDeletions), strings.Join(v.FailedDeletions, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
