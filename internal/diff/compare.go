package diff

import (
	"sort"
	"strings"
)

// Class identifies one kind of difference.
type Class string

const (
	DestOnly    Class = "dest-only"
	SourceOnly  Class = "source-only"
	SizeChanged Class = "size-changed"
	DestNewer   Class = "dest-newer"
	SourceNewer Class = "source-newer"
)

// RootKey is the bucket for files with no directory component.
const RootKey = "(root)"

// Changes groups differing paths by top-level directory, then class. Paths
// within a class are sorted.
type Changes map[string]map[Class][]string

// Compare diffs two listings. A size mismatch wins over a mod-time
// mismatch: a path counts as size-changed even when both differ.
func Compare(source, dest Listing) Changes {
	ch := Changes{}
	add := func(p string, c Class) {
		dir := dirKey(p)
		if ch[dir] == nil {
			ch[dir] = map[Class][]string{}
		}
		ch[dir][c] = append(ch[dir][c], p)
	}

	for p := range dest {
		if _, ok := source[p]; !ok {
			add(p, DestOnly)
		}
	}
	for p, sm := range source {
		dm, ok := dest[p]
		if !ok {
			add(p, SourceOnly)
			continue
		}
		switch {
		case sm.Size != dm.Size:
			add(p, SizeChanged)
		case dm.ModTime.After(sm.ModTime):
			add(p, DestNewer)
		case sm.ModTime.After(dm.ModTime):
			add(p, SourceNewer)
		}
	}

	for _, byClass := range ch {
		for _, paths := range byClass {
			sort.Strings(paths)
		}
	}
	return ch
}

// Dirs returns the bucketed top-level directories, sorted.
func (c Changes) Dirs() []string {
	dirs := make([]string, 0, len(c))
	for d := range c {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// Empty reports whether no differences were found.
func (c Changes) Empty() bool {
	return len(c) == 0
}

func dirKey(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return RootKey
}
