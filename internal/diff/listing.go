// Package diff compares a source file listing (a snapshot or a live tree)
// against a destination listing and reports what a transfer left behind,
// dropped, or resized. It owns no state; both sides are re-listed per run.
package diff

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// FileMeta is what the comparison needs to know about one file.
type FileMeta struct {
	Size    int64
	ModTime time.Time
}

// Listing maps slash-separated relative paths to metadata.
type Listing map[string]FileMeta

// Lister produces listings for local paths and rclone remotes.
type Lister struct {
	Excludes []string

	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewLister(excludes []string) *Lister {
	return &Lister{
		Excludes: excludes,
		run: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).Output()
		},
	}
}

// List returns the listing for root. Paths containing ':' are treated as
// rclone remotes and listed with `rclone lsjson -R`; everything else is
// walked locally. Mod times are truncated to whole seconds on both sides so
// they compare across filesystems.
func (l *Lister) List(ctx context.Context, root string) (Listing, error) {
	if strings.Contains(root, ":") {
		return l.listRemote(ctx, root)
	}
	return l.listLocal(root)
}

func (l *Lister) listLocal(root string) (Listing, error) {
	listing := Listing{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if l.excluded(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		listing[rel] = FileMeta{
			Size:    info.Size(),
			ModTime: info.ModTime().UTC().Truncate(time.Second),
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return listing, nil
}

func (l *Lister) listRemote(ctx context.Context, remote string) (Listing, error) {
	args := []string{"lsjson", "-R", remote}
	for _, pattern := range l.Excludes {
		args = append(args, "--exclude", pattern)
	}
	out, err := l.run(ctx, "rclone", args...)
	if err != nil {
		return nil, fmt.Errorf("rclone lsjson %s: %w", remote, err)
	}

	var items []struct {
		Path    string    `json:"Path"`
		Size    int64     `json:"Size"`
		ModTime time.Time `json:"ModTime"`
		IsDir   bool      `json:"IsDir"`
	}
	if err := json.Unmarshal(out, &items); err != nil {
		return nil, fmt.Errorf("parsing rclone listing of %s: %w", remote, err)
	}

	listing := Listing{}
	for _, it := range items {
		if it.IsDir {
			continue
		}
		listing[it.Path] = FileMeta{
			Size:    it.Size,
			ModTime: it.ModTime.UTC().Truncate(time.Second),
		}
	}
	return listing, nil
}

// excluded applies rclone-style patterns: "dir/**" matches everything under
// dir, anything else matches the whole relative path or its base name.
func (l *Lister) excluded(rel string) bool {
	for _, pattern := range l.Excludes {
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
			if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, path.Base(rel)); ok {
			return true
		}
	}
	return false
}
