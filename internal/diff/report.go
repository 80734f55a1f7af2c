package diff

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Render writes a human-readable report of ch, one section per top-level
// directory. Sizes and mod-time ages come from whichever listing knows the
// path; ages are relative to now.
func Render(w io.Writer, ch Changes, source, dest Listing, now time.Time) {
	if ch.Empty() {
		fmt.Fprintln(w, "source and destination match")
		return
	}

	for _, dir := range ch.Dirs() {
		fmt.Fprintf(w, "%s:\n", dir)
		byClass := ch[dir]
		for _, class := range []Class{SourceOnly, DestOnly, SizeChanged, SourceNewer, DestNewer} {
			paths := byClass[class]
			if len(paths) == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s (%d):\n", class, len(paths))
			for _, p := range paths {
				fmt.Fprintf(w, "    %s  %s\n", p, describe(p, class, source, dest, now))
			}
		}
	}

	total := 0
	for _, byClass := range ch {
		for _, paths := range byClass {
			total += len(paths)
		}
	}
	fmt.Fprintf(w, "%d difference(s) across %d top-level dir(s)\n", total, len(ch))
}

func describe(p string, class Class, source, dest Listing, now time.Time) string {
	switch class {
	case SourceOnly:
		m := source[p]
		return fmt.Sprintf("%s, modified %s", humanize.Bytes(uint64(m.Size)), humanize.RelTime(m.ModTime, now, "ago", "from now"))
	case DestOnly:
		m := dest[p]
		return fmt.Sprintf("%s, modified %s", humanize.Bytes(uint64(m.Size)), humanize.RelTime(m.ModTime, now, "ago", "from now"))
	case SizeChanged:
		return fmt.Sprintf("%s -> %s", humanize.Bytes(uint64(source[p].Size)), humanize.Bytes(uint64(dest[p].Size)))
	case SourceNewer:
		return fmt.Sprintf("source newer by %s", durationWord(source[p].ModTime.Sub(dest[p].ModTime)))
	case DestNewer:
		return fmt.Sprintf("dest newer by %s", durationWord(dest[p].ModTime.Sub(source[p].ModTime)))
	}
	return ""
}

func durationWord(d time.Duration) string {
	return humanize.RelTime(time.Time{}, time.Time{}.Add(d), "", "")
}
