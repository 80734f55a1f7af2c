package snapshot

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the timestamp embedded in snapshot names. Minute precision:
// creating twice within the same minute yields the same name.
const TimeLayout = "2006-01-02-1504"

// Name builds the snapshot name for a prefix and instant.
func Name(prefix string, instant time.Time) string {
	return prefix + "@" + instant.UTC().Format(TimeLayout)
}

// ParseName extracts the creation instant embedded in name. It is the
// fallback when storage metadata yields no instant.
func ParseName(name, prefix string) (time.Time, error) {
	rest, ok := strings.CutPrefix(name, prefix+"@")
	if !ok {
		return time.Time{}, fmt.Errorf("name %q does not start with %q", name, prefix+"@")
	}
	t, err := time.Parse(TimeLayout, rest)
	if err != nil {
		return time.Time{}, fmt.Errorf("no timestamp in name %q: %w", name, err)
	}
	return t, nil
}

// MatchesPrefix reports whether name belongs to the given snapshot prefix.
func MatchesPrefix(name, prefix string) bool {
	return strings.HasPrefix(name, prefix+"@")
}
